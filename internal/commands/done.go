package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&DoneCmd{completed: true})
	Register(&DoneCmd{completed: false})
}

// DoneCmd sets or clears the completed field of a task. It backs both the
// done and undone commands.
type DoneCmd struct {
	completed bool
}

// NewDoneCmd returns the done command, or undone when completed is false.
func NewDoneCmd(completed bool) *DoneCmd {
	return &DoneCmd{completed: completed}
}

func (c *DoneCmd) Name() string {
	if c.completed {
		return "done"
	}
	return "undone"
}

func (c *DoneCmd) Aliases() []string {
	if c.completed {
		return []string{"complete"}
	}
	return []string{"reopen"}
}

func (c *DoneCmd) Synopsis() string {
	if c.completed {
		return "Mark a task completed"
	}
	return "Mark a task not completed"
}

func (c *DoneCmd) Usage() string      { return "taskboard " + c.Name() + " <ref>" }
func (c *DoneCmd) NeedsSession() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
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

	if err := ctrl.UpdateTask(ctx, task.ID, service.Fields{service.FieldCompleted: c.completed}); err != nil {
		return reportError(errOut, err)
	}
	return printOK(cfg, out)
}
