package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/logging"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, false)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written without --debug: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, true)

	logger.Debug().Str("task_id", "abc").Msg("created task")

	if !strings.Contains(buf.String(), "task_id=abc") {
		t.Errorf("expected structured field in output, got %q", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.log")

	logger, closer, err := logging.NewFile(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Error().Msg("error fetching tasks")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `"message":"error fetching tasks"`) {
		t.Errorf("unexpected log contents: %q", data)
	}
	if !strings.Contains(string(data), `"timestamp"`) {
		t.Errorf("expected timestamp field, got %q", data)
	}
}
