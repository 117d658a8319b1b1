// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"taskboard/internal/service"
)

const (
	// NoTasks is printed when the list is empty.
	NoTasks = "no tasks found"

	// NoMatches is printed when a search matches nothing.
	NoMatches = "no tasks match your search"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {TITLE}\n", with a "[x] " or "[ ] " marker before the
// title when the task carries a boolean completion flag.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s%s\n", num, Marker(task), NormalizeTitle(task.Title()))
}

// FormatList writes every task in filtered, numbered by its position in
// all. Numbers stay stable while a search is active.
func FormatList(w io.Writer, all, filtered []service.Task, query string) {
	if len(filtered) == 0 {
		if query != "" {
			fmt.Fprintln(w, NoMatches)
		} else {
			fmt.Fprintln(w, NoTasks)
		}
		return
	}

	position := make(map[string]int, len(all))
	for i, t := range all {
		position[t.ID] = i + 1
	}
	for _, t := range filtered {
		FormatTask(w, position[t.ID], t)
	}
}

// FormatTaskDetail writes every field of a task, one per line: id and
// title first, then the remaining keys sorted.
func FormatTaskDetail(w io.Writer, task service.Task) {
	keys := make([]string, 0, len(task.Fields))
	for k := range task.Fields {
		if k != service.FieldTitle {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	width := len("title")
	for _, k := range keys {
		width = max(width, len(k))
	}

	line := func(key, value string) {
		fmt.Fprintf(w, "%-*s  %s\n", width+1, key+":", value)
	}
	line("id", task.ID)
	line("title", NormalizeTitle(task.Title()))
	for _, k := range keys {
		line(k, FormatValue(task.Fields[k]))
	}
}

// FormatValue renders a field value on a single line.
func FormatValue(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
	}
	return fmt.Sprint(v)
}

// Marker returns the completion checkbox for task, or "" when the task has
// no completed field.
func Marker(task service.Task) string {
	done, ok := task.Completed()
	switch {
	case !ok:
		return ""
	case done:
		return "[x] "
	default:
		return "[ ] "
	}
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
