package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/dashboard"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       string
	description string
	fields      fieldsFlag
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change fields of a task" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <text>] [--desc <text>] [--set key=value]... <ref>"
}
func (c *EditCmd) NeedsSession() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = ""
	c.description = ""
	c.fields = fieldsFlag{}
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.Var(&c.fields, "set", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	values := c.fields.fields.Clone()
	if c.title != "" {
		values[service.FieldTitle] = c.title
	}
	if c.description != "" {
		values[service.FieldDescription] = c.description
	}
	if len(values) == 0 {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --desc or --set)")
		return exitcode.UserError
	}
	if title, exists := values[service.FieldTitle]; exists && strings.TrimSpace(fmt.Sprint(title)) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	return editTask(ctx, cfg, sess, args, values, out, errOut)
}

// editTask opens the referenced task in an edit form, applies values and
// submits the changes.
func editTask(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, values service.Fields, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl, code := mountDashboard(ctx, cfg, sess, errOut)
	if code != exitcode.Success {
		return code
	}
	defer ctrl.Unmount()

	task, err := ref.Resolve(ctrl.Snapshot().Tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	selected, err := ctrl.Edit(task.ID)
	if err != nil {
		return reportError(errOut, err)
	}

	form := dashboard.NewEditForm(selected)
	for k, v := range values {
		form.Set(k, v)
	}
	if err := form.Submit(ctx, ctrl); err != nil {
		form.Cancel(ctrl)
		return submitError(errOut, err)
	}

	return printOK(cfg, out)
}
