package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"taskboard/internal/config"
	"taskboard/internal/dashboard"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// routeRecorder is the CLI navigator: it remembers requested routes so the
// command can report them instead of switching views.
type routeRecorder struct {
	routes []string
}

func (r *routeRecorder) Navigate(route string) {
	r.routes = append(r.routes, route)
}

func (r *routeRecorder) requested(route string) bool {
	for _, rt := range r.routes {
		if rt == route {
			return true
		}
	}
	return false
}

// mountDashboard creates a controller, checks that a user is signed in and
// loads the task list. On failure the error has been printed and the exit
// code is non-zero.
func mountDashboard(ctx context.Context, cfg *config.Config, sess *session.Session, errOut io.Writer) (*dashboard.Controller, int) {
	nav := &routeRecorder{}
	c := dashboard.NewController(sess.Store, sess.Auth, nav, commandLogger(cfg, errOut))

	c.WatchAuth()
	if nav.requested(dashboard.RouteLogin) {
		c.Unmount()
		fmt.Fprintf(errOut, "error: %v\n", service.ErrSignedOut)
		return nil, exitcode.AuthError
	}

	if err := c.LoadTasks(ctx); err != nil {
		c.Unmount()
		return nil, reportError(errOut, err)
	}
	return c, exitcode.Success
}

// commandLogger returns the controller logger for a command. Commands print
// their own errors, so controller logs only appear with --debug.
func commandLogger(cfg *config.Config, errOut io.Writer) zerolog.Logger {
	if !cfg.Debug {
		return zerolog.Nop()
	}
	return logging.New(errOut, true)
}

// reportError prints err in the form matching its exit code.
func reportError(errOut io.Writer, err error) int {
	code := exitcode.FromError(err)
	switch code {
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	case exitcode.UserError:
		fmt.Fprintf(errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	}
	return code
}

// submitError reports a form submission error.
func submitError(errOut io.Writer, err error) int {
	if errors.Is(err, dashboard.ErrTitleRequired) {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	return reportError(errOut, err)
}

func printOK(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// fieldsFlag collects repeated --set key=value flags.
type fieldsFlag struct {
	fields service.Fields
}

func (f *fieldsFlag) String() string {
	keys := make([]string, 0, len(f.fields))
	for k := range f.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (f *fieldsFlag) Set(s string) error {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if f.fields == nil {
		f.fields = service.Fields{}
	}
	f.fields[key] = ParseValue(value)
	return nil
}

// ParseValue converts a command-line value into a field value: "true" and
// "false" become booleans, integers become int64, other numbers float64,
// anything else stays a string.
func ParseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if !strings.ContainsAny(s, "0123456789") {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
