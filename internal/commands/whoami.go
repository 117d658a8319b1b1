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
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the signed-in user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Print the signed-in user" }
func (c *WhoamiCmd) Usage() string      { return "taskboard whoami" }
func (c *WhoamiCmd) NeedsSession() bool { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	user := sess.Auth.CurrentUser()
	if user == nil {
		fmt.Fprintf(errOut, "error: %v\n", service.ErrSignedOut)
		return exitcode.AuthError
	}
	if user.Email == "" {
		fmt.Fprintln(out, user.UID)
		return exitcode.Success
	}
	fmt.Fprintf(out, "%s (%s)\n", user.Email, user.UID)
	return exitcode.Success
}
