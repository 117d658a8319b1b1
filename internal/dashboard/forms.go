package dashboard

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"taskboard/internal/service"
)

// ErrTitleRequired is returned when a form is submitted without a title.
var ErrTitleRequired = errors.New("title required")

// AddForm collects a new task's fields.
type AddForm struct {
	Title  string
	Fields service.Fields
}

// Set stores an extra field. Setting the title key updates Title, rendering
// non-string values the way Task.Title does.
func (f *AddForm) Set(key string, value any) {
	if key == service.FieldTitle {
		f.Title = service.Task{Fields: service.Fields{key: value}}.Title()
		return
	}
	if f.Fields == nil {
		f.Fields = service.Fields{}
	}
	f.Fields[key] = value
}

// Submit hands the fields to the controller and clears the form on success.
// On failure the form keeps its values.
func (f *AddForm) Submit(ctx context.Context, c *Controller) (service.Task, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return service.Task{}, ErrTitleRequired
	}

	fields := f.Fields.Clone()
	fields[service.FieldTitle] = title

	task, err := c.AddTask(ctx, fields)
	if err != nil {
		return service.Task{}, err
	}
	f.Reset()
	return task, nil
}

// Reset clears the form.
func (f *AddForm) Reset() {
	f.Title = ""
	f.Fields = nil
}

// EditForm is pre-populated with an existing task and hands back only the
// fields that changed. The title is always part of the update.
type EditForm struct {
	id       string
	original service.Fields
	values   service.Fields
}

// NewEditForm returns a form holding a copy of task's fields.
func NewEditForm(task service.Task) *EditForm {
	return &EditForm{
		id:       task.ID,
		original: task.Fields.Clone(),
		values:   task.Fields.Clone(),
	}
}

// ID returns the ID of the task being edited.
func (f *EditForm) ID() string { return f.id }

// Title returns the current title value.
func (f *EditForm) Title() string {
	return service.Task{Fields: f.values}.Title()
}

// Value returns the current value of key.
func (f *EditForm) Value(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Set changes a field value.
func (f *EditForm) Set(key string, value any) {
	if f.values == nil {
		f.values = service.Fields{}
	}
	f.values[key] = value
}

// Changes returns the partial update the form would submit.
func (f *EditForm) Changes() service.Fields {
	changes := service.Fields{service.FieldTitle: strings.TrimSpace(f.Title())}
	for k, v := range f.values {
		if k == service.FieldTitle {
			continue
		}
		if orig, ok := f.original[k]; !ok || !reflect.DeepEqual(orig, v) {
			changes[k] = v
		}
	}
	return changes
}

// Submit sends the changed fields to the controller, which clears the
// editing selection. The form is cleared on success.
func (f *EditForm) Submit(ctx context.Context, c *Controller) error {
	if strings.TrimSpace(f.Title()) == "" {
		return ErrTitleRequired
	}
	if err := c.UpdateTask(ctx, f.id, f.Changes()); err != nil {
		return err
	}
	f.reset()
	return nil
}

// Cancel asks the controller to drop the editing selection.
func (f *EditForm) Cancel(c *Controller) {
	c.CancelEdit()
	f.reset()
}

func (f *EditForm) reset() {
	f.original = nil
	f.values = nil
}
