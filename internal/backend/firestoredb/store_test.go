package firestoredb_test

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/backend/firestoredb"
	"taskboard/internal/service"
)

func TestUpdates_SortedSingleSegmentPaths(t *testing.T) {
	updates := firestoredb.Updates(service.Fields{
		"title":     "New",
		"completed": true,
		"a.b":       1,
	})

	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	wantKeys := []string{"a.b", "completed", "title"}
	for i, u := range updates {
		if len(u.FieldPath) != 1 || u.FieldPath[0] != wantKeys[i] {
			t.Errorf("update %d: expected path [%s], got %v", i, wantKeys[i], u.FieldPath)
		}
		if u.Path != "" {
			t.Errorf("update %d: dotted Path must not be used, got %q", i, u.Path)
		}
	}
	if updates[1].Value != true {
		t.Errorf("unexpected value: %v", updates[1].Value)
	}
}

func TestUpdates_Empty(t *testing.T) {
	if got := firestoredb.Updates(nil); len(got) != 0 {
		t.Errorf("expected no updates, got %v", got)
	}
}

// newEmulatorStore connects to the Firestore emulator, skipping the test when
// FIRESTORE_EMULATOR_HOST is unset.
func newEmulatorStore(t *testing.T) *firestoredb.Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "taskboard-test")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	store := firestoredb.NewWithClient(client, "tasks-"+uuid.NewString(), zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Emulator(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	id, err := store.CreateTask(ctx, service.Fields{"title": "Buy milk", "completed": false})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	if err := store.UpdateTask(ctx, id, service.Fields{"completed": true}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != id || tasks[0].Title() != "Buy milk" || tasks[0].Fields["completed"] != true {
		t.Errorf("unexpected task: %+v", tasks[0])
	}

	if err := store.DeleteTask(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.DeleteTask(ctx, id); err != nil {
		t.Errorf("deleting an absent document should succeed, got %v", err)
	}
	tasks, err = store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty collection, got %d", len(tasks))
	}
}

func TestStore_EmulatorUpdateMissing(t *testing.T) {
	store := newEmulatorStore(t)

	err := store.UpdateTask(context.Background(), "missing", service.Fields{"title": "x"})
	if err != service.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
