package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "TASKBOARD_PASSWORD"

func init() {
	Register(&LoginCmd{})
	Register(&LoginCmd{signup: true})
}

// LoginCmd implements the login and signup commands.
type LoginCmd struct {
	signup   bool
	email    string
	password string
}

// NewSignupCmd returns the signup variant of the login command.
func NewSignupCmd() *LoginCmd {
	return &LoginCmd{signup: true}
}

func (c *LoginCmd) Name() string {
	if c.signup {
		return "signup"
	}
	return "login"
}

func (c *LoginCmd) Aliases() []string {
	if c.signup {
		return []string{"register"}
	}
	return nil
}

func (c *LoginCmd) Synopsis() string {
	if c.signup {
		return "Create an account and sign in"
	}
	return "Sign in with email and password"
}

func (c *LoginCmd) Usage() string {
	return "taskboard " + c.Name() + " --email <email> [--password <password>]"
}

func (c *LoginCmd) NeedsSession() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	c.email = ""
	c.password = ""
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if !c.signup {
		if user := sess.Auth.CurrentUser(); user != nil {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
	}

	email := strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprintln(errOut, "error: email required (use --email)")
		return exitcode.UserError
	}
	password := c.password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if password == "" {
		fmt.Fprintf(errOut, "error: password required (use --password or %s)\n", PasswordEnv)
		return exitcode.UserError
	}

	var err error
	if c.signup {
		_, err = sess.Auth.SignUp(ctx, email, password)
	} else {
		_, err = sess.Auth.SignIn(ctx, email, password)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		return reportError(errOut, err)
	}

	return printOK(cfg, out)
}
