package task

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrerequisites decodes the comma-separated prerequisite column.
// Whitespace and empty cells are tolerated; order is preserved.
func ParsePrerequisites(csv string) ([]int64, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad prerequisite id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatPrerequisites encodes prerequisite ids for storage.
func FormatPrerequisites(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Unmet returns the prerequisite ids not yet satisfied, in prerequisite-list
// order. A prerequisite is satisfied only when its status is Done; a missing
// id counts as unsatisfied, not as an error.
func Unmet(prereqs []int64, statusByID map[int64]Status) []int64 {
	var unmet []int64
	for _, id := range prereqs {
		if statusByID[id] != StatusDone {
			unmet = append(unmet, id)
		}
	}
	return unmet
}

// Satisfied reports whether every prerequisite is Done, alongside the
// ordered unmet list.
func Satisfied(prereqs []int64, statusByID map[int64]Status) (bool, []int64) {
	unmet := Unmet(prereqs, statusByID)
	return len(unmet) == 0, unmet
}

// IntroducesCycle reports whether inserting a task with the given id and
// prerequisite set would create a cycle in the prerequisite graph (including
// a self-referential prerequisite). graph maps existing task ids to their
// prerequisite ids; the walk is a depth-first reachability check with a
// visited set.
func IntroducesCycle(id int64, prereqs []int64, graph map[int64][]int64) bool {
	visited := make(map[int64]bool)
	var reaches func(from int64) bool
	reaches = func(from int64) bool {
		if from == id {
			return true
		}
		if visited[from] {
			return false
		}
		visited[from] = true
		for _, next := range graph[from] {
			if reaches(next) {
				return true
			}
		}
		return false
	}
	for _, p := range prereqs {
		if reaches(p) {
			return true
		}
	}
	return false
}
