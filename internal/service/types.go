package service

import (
	"fmt"
	"maps"
)

// Well-known field names. The schema is otherwise open: any other key a
// document carries is kept and round-tripped untouched.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// Fields is a document's field map.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Task is a task document: a backend-assigned ID and its fields.
type Task struct {
	ID     string
	Fields Fields
}

// Title returns the title field coerced to a string.
// A missing title yields "".
func (t Task) Title() string {
	v, ok := t.Fields[FieldTitle]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Completed reports the completion flag and whether the task carries one.
func (t Task) Completed() (done, ok bool) {
	done, ok = t.Fields[FieldCompleted].(bool)
	return done, ok
}

// Merge returns a copy of t with every key of partial overwritten.
// Keys absent from partial are unchanged.
func (t Task) Merge(partial Fields) Task {
	fields := t.Fields.Clone()
	maps.Copy(fields, partial)
	return Task{ID: t.ID, Fields: fields}
}

// User is the signed-in identity. Only its presence gates access.
type User struct {
	UID   string
	Email string
}
