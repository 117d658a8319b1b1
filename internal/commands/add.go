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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	fields      fieldsFlag
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskboard add [--desc <text>] [--set key=value]... <title...>" }
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.description = ""
	c.fields = fieldsFlag{}
	fs.StringVar(&c.description, "desc", "", "")
	fs.Var(&c.fields, "set", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	form := &dashboard.AddForm{Title: strings.Join(args, " ")}
	for k, v := range c.fields.fields {
		form.Set(k, v)
	}
	if c.description != "" {
		form.Set(service.FieldDescription, c.description)
	}
	if strings.TrimSpace(form.Title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if _, exists := form.Fields[service.FieldCompleted]; !exists {
		form.Set(service.FieldCompleted, false)
	}

	ctrl, code := mountDashboard(ctx, cfg, sess, errOut)
	if code != exitcode.Success {
		return code
	}
	defer ctrl.Unmount()

	task, err := form.Submit(ctx, ctrl)
	if err != nil {
		return submitError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", task.ID)
	}
	return exitcode.Success
}
