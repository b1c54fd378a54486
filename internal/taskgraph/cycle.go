package taskgraph

// FindCycle returns the first dependency cycle in records, or nil if the batch is acyclic.
//
// Records are tried as cycle starts in input order and each walk follows DependencyIDs in
// order, so the reported path is stable for a given batch. The path begins with the id the
// walk started the cycle from and ends with the same id repeated. Dependency ids missing from
// the batch are skipped.
//
// When ids repeat, the first record carrying an id defines its edges.
func FindCycle(records []Record) []int {
	edges := make(map[int][]int, len(records))
	for _, rec := range records {
		if _, seen := edges[rec.ID]; !seen {
			edges[rec.ID] = rec.DependencyIDs
		}
	}

	// A finished id has had its whole dependency closure walked without meeting the path
	// it was reached from; it cannot reach any later path either, so it is never re-walked.
	finished := make(map[int]bool, len(edges))
	onPath := make(map[int]bool)
	var path []int

	var walk func(id int) []int
	walk = func(id int) []int {
		path = append(path, id)
		onPath[id] = true

		for _, depID := range edges[id] {
			if _, exists := edges[depID]; !exists {
				continue
			}
			if onPath[depID] {
				cycle := make([]int, 0, len(path)+1)
				cycle = append(cycle, path...)
				return append(cycle, depID)
			}
			if finished[depID] {
				continue
			}
			if cycle := walk(depID); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		onPath[id] = false
		finished[id] = true
		return nil
	}

	for _, rec := range records {
		if finished[rec.ID] {
			continue
		}
		if cycle := walk(rec.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}

// CheckCycles wraps FindCycle, returning a *CycleError when a cycle exists.
func CheckCycles(records []Record) error {
	if cycle := FindCycle(records); cycle != nil {
		return &CycleError{Path: cycle}
	}
	return nil
}
