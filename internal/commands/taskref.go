package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskboard/internal/service"
)

// TaskRef is a parsed task reference: a 1-based position in the full list,
// or a document ID.
type TaskRef struct {
	Num int
	ID  string
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. All digits → position in the full list (e.g. 3)
//  2. '#' followed by an ID → document ID (e.g. #7Hq2, #123)
//  3. Any other single token → document ID
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	id := strings.TrimPrefix(arg, "#")
	if id == "" || strings.ContainsAny(id, "/ ") {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{ID: id}, nil
}

// Resolve finds the referenced task in tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID == "" {
		if r.Num < 1 || r.Num > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", r.Num)
		}
		return tasks[r.Num-1], nil
	}
	for _, t := range tasks {
		if t.ID == r.ID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found: %s", r.ID)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
