package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/session"
	"taskboard/internal/tui"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd starts the interactive terminal dashboard.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string       { return "dashboard" }
func (c *DashboardCmd) Aliases() []string  { return []string{"ui"} }
func (c *DashboardCmd) Synopsis() string   { return "Open the interactive dashboard" }
func (c *DashboardCmd) Usage() string      { return "taskboard dashboard [common flags]" }
func (c *DashboardCmd) NeedsSession() bool { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, cfg, sess); err != nil {
		fmt.Fprintf(errOut, "error: dashboard: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
