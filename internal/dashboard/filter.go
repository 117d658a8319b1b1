package dashboard

import (
	"strings"

	"taskboard/internal/service"
)

// Filter returns the tasks whose title contains query, ignoring case.
// An empty query matches every task. The result is never nil.
func Filter(tasks []service.Task, query string) []service.Task {
	q := strings.ToLower(query)

	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title()), q) {
			result = append(result, t)
		}
	}
	return result
}
