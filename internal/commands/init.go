package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/session"
)

func init() {
	Register(&InitCmd{})
}

// InitCmd writes project.yaml.
type InitCmd struct {
	project config.Project
}

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return nil }
func (c *InitCmd) Synopsis() string  { return "Configure the backend project" }
func (c *InitCmd) Usage() string {
	return "taskboard init --project-id <id> --api-key <key> [--auth-domain <domain>] [--database <db>] [--collection <name>]"
}
func (c *InitCmd) NeedsSession() bool { return false }

func (c *InitCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project = config.Project{}
	fs.StringVar(&c.project.ProjectID, "project-id", "", "")
	fs.StringVar(&c.project.APIKey, "api-key", "", "")
	fs.StringVar(&c.project.AuthDomain, "auth-domain", "", "")
	fs.StringVar(&c.project.Database, "database", config.DefaultDatabase, "")
	fs.StringVar(&c.project.Collection, "collection", config.DefaultCollection, "")
}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	switch {
	case c.project.ProjectID == "":
		fmt.Fprintln(errOut, "error: flag needs an argument: -project-id")
		return exitcode.UserError
	case c.project.APIKey == "":
		fmt.Fprintln(errOut, "error: flag needs an argument: -api-key")
		return exitcode.UserError
	}

	if err := cfg.SaveProject(&c.project); err != nil {
		fmt.Fprintf(errOut, "error: failed to save project: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", cfg.ProjectPath())
	}
	return exitcode.Success
}
