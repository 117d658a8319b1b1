package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// runCommand parses argv with the command's flags and runs it against the
// given session.
func runCommand(t *testing.T, cmd commands.Command, sess *session.Session, argv []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("failed to parse flags %v: %v", argv, err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	code = cmd.Run(context.Background(), cfg, sess, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// newSession returns a signed-in session over a store seeded with three tasks.
func newSession() (*session.Session, *testutil.FakeStore, *testutil.FakeIdentity) {
	store := testutil.NewFakeStore()
	store.Seed("a1", service.Fields{"title": "Buy milk", "completed": false})
	store.Seed("b2", service.Fields{"title": "Pay rent", "completed": true})
	store.Seed("c3", service.Fields{"title": "Buy bread"})
	auth := testutil.NewSignedInIdentity("a@example.com")
	return &session.Session{Store: store, Auth: auth}, store, auth
}

func signedOutSession() (*session.Session, *testutil.FakeStore) {
	store := testutil.NewFakeStore()
	store.Seed("a1", service.Fields{"title": "Buy milk"})
	return &session.Session{Store: store, Auth: testutil.NewFakeIdentity()}, store
}

func expectCode(t *testing.T, got, want int, stderr string) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d (stderr: %q)", want, got, stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, name := range []string{"Usage:", "taskboard add", "taskboard dashboard", "--search"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("help output should contain %q", name)
		}
	}
}

func TestHelpCommand_MentionsEveryCommand(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, nil, false)
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "taskboard "+cmd.Name()) {
			t.Errorf("help output does not mention %q", cmd.Name())
		}
	}
}

// Tests for list command
func TestListCommand_All(t *testing.T) {
	sess, _, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	expected := "   1  [ ] Buy milk\n   2  [x] Pay rent\n   3  Buy bread\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Search(t *testing.T) {
	sess, _, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, sess, []string{"--search", "BUY"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	// Numbers refer to the full list so they can be passed to done/rm.
	expected := "   1  [ ] Buy milk\n   3  Buy bread\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_SearchPositional(t *testing.T) {
	sess, _, _ := newSession()

	stdout, _, _ := runCommand(t, &commands.ListCmd{}, sess, []string{"rent"}, false)

	if stdout != "   2  [x] Pay rent\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_NoMatches(t *testing.T) {
	sess, _, _ := newSession()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, sess, []string{"-s", "zzz"}, false)

	expectCode(t, code, exitcode.Success, "")
	if stdout != "no tasks match your search\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	sess := &session.Session{Store: testutil.NewFakeStore(), Auth: testutil.NewSignedInIdentity("a@example.com")}

	stdout, _, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)
	expectCode(t, code, exitcode.Success, "")
	if stdout != "no tasks found\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, sess, nil, true)
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_SignedOut(t *testing.T) {
	sess, store := signedOutSession()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.AuthError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.ListCalls != 0 {
		t.Errorf("signed-out list must not read the store, got %d calls", store.ListCalls)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	sess, store, _ := newSession()
	store.ListErr = errors.New("unavailable")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.BackendError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: unavailable\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_PermissionDenied(t *testing.T) {
	sess, store, _ := newSession()
	store.ListErr = service.ErrPermission

	_, stderr, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.AuthError, stderr)
	if !strings.HasPrefix(stderr, "error: auth error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	sess, _, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, sess, []string{"2"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	expected := "id:         b2\ntitle:      Pay rent\ncompleted:  true\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestShowCommand_ByID(t *testing.T) {
	sess, _, _ := newSession()

	stdout, _, code := runCommand(t, &commands.ShowCmd{}, sess, []string{"#c3"}, false)

	expectCode(t, code, exitcode.Success, "")
	if !strings.HasPrefix(stdout, "id:     c3\n") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestShowCommand_OutOfRange(t *testing.T) {
	sess, _, _ := newSession()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, sess, []string{"9"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: task number out of range: 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestShowCommand_MissingRef(t *testing.T) {
	sess, store, _ := newSession()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.ListCalls != 0 {
		t.Error("invalid reference must not read the store")
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess,
		[]string{"--desc", "two liters", "--set", "priority=2", "Buy", "  oat milk "}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if !strings.HasPrefix(stdout, "ok ") {
		t.Fatalf("expected ok with id, got %q", stdout)
	}
	id := strings.TrimSpace(strings.TrimPrefix(stdout, "ok "))

	task, found := store.Get(id)
	if !found {
		t.Fatalf("task %s not stored", id)
	}
	if task.Title() != "Buy   oat milk" {
		t.Errorf("unexpected title %q", task.Title())
	}
	if task.Fields["description"] != "two liters" || task.Fields["priority"] != int64(2) {
		t.Errorf("unexpected fields %v", task.Fields)
	}
	if task.Fields["completed"] != false {
		t.Errorf("new tasks should start not completed, got %v", task.Fields["completed"])
	}
	if store.Len() != 4 {
		t.Errorf("expected 4 tasks, got %d", store.Len())
	}
}

func TestAddCommand_CompletedOverride(t *testing.T) {
	sess, store, _ := newSession()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, sess, []string{"--set", "completed=true", "Done already"}, true)

	expectCode(t, code, exitcode.Success, "")
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	tasks, _ := store.ListTasks(context.Background())
	if last := tasks[len(tasks)-1]; last.Fields["completed"] != true {
		t.Errorf("expected completed=true, got %v", last.Fields)
	}
}

func TestAddCommand_EmptyTitle(t *testing.T) {
	sess, store, _ := newSession()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"   "}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.Len() != 3 {
		t.Errorf("no task should be created, got %d", store.Len())
	}
}

func TestAddCommand_TitleViaSet(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"--set", "title=From flag", "Positional"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	id := strings.TrimSpace(strings.TrimPrefix(stdout, "ok "))
	if task, _ := store.Get(id); task.Title() != "From flag" {
		t.Errorf("expected --set title to win, got %q", task.Title())
	}
}

func TestAddCommand_NumericTitleViaSet(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"--set", "title=42"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	id := strings.TrimSpace(strings.TrimPrefix(stdout, "ok "))
	task, _ := store.Get(id)
	if task.Fields["title"] != "42" {
		t.Errorf("expected string title %q, got %#v", "42", task.Fields["title"])
	}
}

func TestAddCommand_CreateError(t *testing.T) {
	sess, store, _ := newSession()
	store.CreateErr = service.ErrPermission

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"Task"}, false)

	expectCode(t, code, exitcode.AuthError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, sess,
		[]string{"--title", "Buy oat milk", "--set", "priority=1", "1"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	task, _ := store.Get("a1")
	if task.Title() != "Buy oat milk" || task.Fields["priority"] != int64(1) {
		t.Errorf("unexpected fields %v", task.Fields)
	}
	if task.Fields["completed"] != false {
		t.Errorf("untouched field changed: %v", task.Fields)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	sess, store, _ := newSession()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, sess, []string{"1"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if store.ListCalls != 0 {
		t.Error("edit without changes must not read the store")
	}
}

func TestEditCommand_EmptyTitle(t *testing.T) {
	sess, store, _ := newSession()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, sess, []string{"--set", "title= ", "1"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if task, _ := store.Get("a1"); task.Title() != "Buy milk" {
		t.Errorf("title must not change, got %q", task.Title())
	}
}

func TestEditCommand_UnknownID(t *testing.T) {
	sess, _, _ := newSession()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, sess, []string{"--title", "x", "#zz"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: task not found: zz\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_DeletedRemotely(t *testing.T) {
	sess, store, _ := newSession()
	store.UpdateErr = service.ErrNotFound

	_, stderr, code := runCommand(t, &commands.EditCmd{}, sess, []string{"--title", "x", "1"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done and undone
func TestDoneCommand(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, commands.NewDoneCmd(true), sess, []string{"3"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if task, _ := store.Get("c3"); task.Fields["completed"] != true {
		t.Errorf("expected completed, got %v", task.Fields)
	}
}

func TestUndoneCommand(t *testing.T) {
	sess, store, _ := newSession()

	_, stderr, code := runCommand(t, commands.NewDoneCmd(false), sess, []string{"#b2"}, true)

	expectCode(t, code, exitcode.Success, stderr)
	if task, _ := store.Get("b2"); task.Fields["completed"] != false {
		t.Errorf("expected not completed, got %v", task.Fields)
	}
}

func TestDoneCommand_Names(t *testing.T) {
	if got := commands.NewDoneCmd(true).Name(); got != "done" {
		t.Errorf("expected done, got %q", got)
	}
	if got := commands.NewDoneCmd(false).Name(); got != "undone" {
		t.Errorf("expected undone, got %q", got)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	sess, store, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, sess, []string{"2"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if _, found := store.Get("b2"); found {
		t.Error("task should be deleted")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 tasks, got %d", store.Len())
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	sess, store, _ := newSession()
	store.DeleteErr = errors.New("deadline")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, sess, []string{"1"}, false)

	expectCode(t, code, exitcode.BackendError, stderr)
	if store.Len() != 3 {
		t.Error("failed delete must leave the store unchanged")
	}
}

// Tests for init command
func TestInitCommand(t *testing.T) {
	cmd := &commands.InitCmd{}
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse([]string{"--project-id", "demo", "--api-key", "key-1", "--collection", "todos"}); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Dir: filepath.Join(t.TempDir(), "nested")}
	var out, errOut bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, fs.Args(), &out, &errOut)

	expectCode(t, code, exitcode.Success, errOut.String())
	if out.String() != "ok "+cfg.ProjectPath()+"\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	project, err := cfg.LoadProject()
	if err != nil {
		t.Fatalf("failed to load saved project: %v", err)
	}
	if project.ProjectID != "demo" || project.APIKey != "key-1" || project.Collection != "todos" || project.Database != "(default)" {
		t.Errorf("unexpected project %+v", project)
	}
	info, err := os.Stat(cfg.ProjectPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestInitCommand_MissingAPIKey(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.InitCmd{}, nil, []string{"--project-id", "demo"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: flag needs an argument: -api-key\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for whoami
func TestWhoamiCommand(t *testing.T) {
	sess, _, _ := newSession()

	stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "a@example.com (uid-a@example.com)\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestWhoamiCommand_SignedOut(t *testing.T) {
	sess, _ := signedOutSession()

	_, stderr, code := runCommand(t, &commands.WhoamiCmd{}, sess, nil, false)

	expectCode(t, code, exitcode.AuthError, stderr)
}

// Tests for ParseValue
func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{"inf", "inf"},
		{"NaN", "NaN"},
		{"", ""},
		{"hello world", "hello world"},
		{"True", "True"},
	}
	for _, tt := range tests {
		if got := commands.ParseValue(tt.in); got != tt.want {
			t.Errorf("ParseValue(%q): expected %v (%T), got %v (%T)", tt.in, tt.want, tt.want, got, got)
		}
	}
}

func TestDoneCommand_Untitled(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("u1", service.Fields{"notes": "no title"})
	sess := &session.Session{Store: store, Auth: testutil.NewSignedInIdentity("a@example.com")}

	_, stderr, code := runCommand(t, commands.NewDoneCmd(true), sess, []string{"1"}, true)

	expectCode(t, code, exitcode.Success, stderr)
	task, _ := store.Get("u1")
	if task.Fields["completed"] != true {
		t.Errorf("expected completed, got %v", task.Fields)
	}
	if _, exists := task.Fields["title"]; exists {
		t.Error("toggling must not write a title")
	}
}
