package taskgraph

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Group is a read-only tally of the tasks sharing a group name.
type Group struct {
	Name               string
	TaskCount          int
	CompletedTaskCount int
}

// Summarizer aggregates tasks into groups, sorting names with the collation rules of Locale.
type Summarizer struct {
	Locale language.Tag // Defaults to English when undetermined
}

// SummarizeGroups summarizes with English collation.
func SummarizeGroups(s *Set) []Group {
	return Summarizer{}.Summarize(s)
}

// Summarize groups tasks case-insensitively, keeping the casing of the first task seen in a group.
func (sm Summarizer) Summarize(s *Set) []Group {
	byKey := make(map[string]*Group)
	var groups []*Group
	for _, task := range s.Tasks() {
		key := strings.ToUpper(task.group)
		g, exists := byKey[key]
		if !exists {
			g = &Group{Name: task.group}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.TaskCount++
		if task.Completed() {
			g.CompletedTaskCount++
		}
	}

	locale := sm.Locale
	if locale == language.Und {
		locale = language.English
	}
	col := collate.New(locale)
	sort.SliceStable(groups, func(i, j int) bool {
		return col.CompareString(groups[i].Name, groups[j].Name) < 0
	})

	result := make([]Group, len(groups))
	for i, g := range groups {
		result[i] = *g
	}
	return result
}

// GroupTasks returns the tasks of one group, compared case-insensitively, in input order.
func GroupTasks(s *Set, group string) []*Task {
	key := strings.ToUpper(group)
	var tasks []*Task
	for _, task := range s.Tasks() {
		if strings.ToUpper(task.group) == key {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
