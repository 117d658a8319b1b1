package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/dashboard"
	"taskboard/internal/exitcode"
	"taskboard/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Sign out and remove the stored session" }
func (c *LogoutCmd) Usage() string      { return "taskboard logout [common flags]" }
func (c *LogoutCmd) NeedsSession() bool { return true }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if sess.Auth.CurrentUser() == nil {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	nav := &routeRecorder{}
	ctrl := dashboard.NewController(sess.Store, sess.Auth, nav, commandLogger(cfg, errOut))
	ctrl.WatchAuth()
	defer ctrl.Unmount()

	if err := ctrl.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to sign out: %v\n", err)
		return exitcode.AuthError
	}
	if !nav.requested(dashboard.RouteLogin) {
		fmt.Fprintln(errOut, "error: session still active")
		return exitcode.AuthError
	}

	return printOK(cfg, out)
}
