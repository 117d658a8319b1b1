package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command (also run for bare `taskboard`).
type ListCmd struct {
	search string
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks, optionally filtered by title" }
func (c *ListCmd) Usage() string      { return "taskboard list [--search <text>] [text...]" }
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.search = ""
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	query := c.search
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	ctrl, code := mountDashboard(ctx, cfg, sess, errOut)
	if code != exitcode.Success {
		return code
	}
	defer ctrl.Unmount()

	ctrl.SetSearch(query)
	state := ctrl.Snapshot()

	if len(state.Filtered) == 0 && cfg.Quiet {
		return exitcode.Success
	}
	output.FormatList(out, state.Tasks, state.Filtered, state.Query)
	return exitcode.Success
}
