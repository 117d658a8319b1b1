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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskboard help" }
func (c *HelpCmd) NeedsSession() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                          List all tasks
  taskboard init --project-id <id> --api-key <key> [--auth-domain <domain>]
                 [--database <db>] [--collection <name>]
  taskboard signup [common flags] --email <email> [--password <password>]
  taskboard login [common flags] --email <email> [--password <password>]
  taskboard logout [common flags]
  taskboard whoami [common flags]
  taskboard list [common flags] [--search <text>]   List tasks whose title contains text
  taskboard show [common flags] <ref>
  taskboard add [common flags] [--desc <text>] [--set key=value]... <title...>
  taskboard edit [common flags] [--title <text>] [--desc <text>] [--set key=value]... <ref>
  taskboard done [common flags] <ref>
  taskboard undone [common flags] <ref>
  taskboard rm [common flags] <ref>
  taskboard dashboard [common flags]                 Interactive terminal dashboard
  taskboard help
  taskboard version

Task references:
  <n>              Position in the full task list (as printed by list)
  #<id>, <id>      Document ID

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKBOARD_PROJECT_ID, TASKBOARD_API_KEY, TASKBOARD_AUTH_DOMAIN,
  TASKBOARD_DATABASE, TASKBOARD_COLLECTION   Override project.yaml
  TASKBOARD_PASSWORD                          Password for login and signup
`
