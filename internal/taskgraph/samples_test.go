package taskgraph

import "time"

func rec(id int, group, text string, deps ...int) Record {
	return Record{ID: id, Group: group, Text: text, DependencyIDs: deps}
}

func normalSample() []Record {
	return []Record{
		rec(1, "Purchases", "Go to the bank"),
		rec(2, "Purchases", "Buy hammer", 1),
		rec(3, "Purchases", "Buy wood", 1),
		rec(4, "Purchases", "Buy nails", 1),
		rec(5, "Purchases", "Buy paint", 1),
		rec(6, "Build Airplane", "Hammer nails into wood", 2, 3, 4),
		rec(7, "Build Airplane", "Paint wings", 5, 6),
		rec(8, "Build Airplane", "Have a snack"),
	}
}

func sampleWithOrphan() []Record {
	records := normalSample()
	records[0].DependencyIDs = []int{666}
	return records
}

func sampleWithLoop() []Record {
	return []Record{
		rec(1, "Purchases", "Go to the bank", 2),
		rec(2, "Purchases", "Buy hammer", 1),
	}
}

func sampleWithIndirectLoop() []Record {
	records := normalSample()
	records[0].DependencyIDs = []int{6}
	return records
}

func allCompleted(records []Record, at time.Time) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		stamp := at
		r.CompletedAt = &stamp
		out[i] = r
	}
	return out
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
