// Package firestoredb implements service.Store on a Cloud Firestore collection.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// APITimeout is the timeout for database calls.
const APITimeout = 10 * time.Second

// Store implements service.Store. Each task is one document in the
// configured collection; document IDs are generated by the backend.
type Store struct {
	client     *firestore.Client
	collection string
	logger     zerolog.Logger
}

// New connects to the project's database, authenticating every call with ts.
// When FIRESTORE_EMULATOR_HOST is set the client talks to the emulator.
func New(ctx context.Context, project *config.Project, ts oauth2.TokenSource, logger zerolog.Logger) (*Store, error) {
	client, err := firestore.NewClientWithDatabase(ctx, project.ProjectID, project.Database,
		option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return NewWithClient(client, project.Collection, logger), nil
}

// NewWithClient wraps an existing client (for testing).
func NewWithClient(client *firestore.Client, collection string, logger zerolog.Logger) *Store {
	return &Store{
		client:     client,
		collection: collection,
		logger:     logger,
	}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// ListTasks returns every document in the collection.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	docs, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapError(err)
	}

	tasks := make([]service.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, service.Task{
			ID:     doc.Ref.ID,
			Fields: service.Fields(doc.Data()),
		})
	}
	s.logger.Debug().Int("count", len(tasks)).Str("collection", s.collection).Msg("listed documents")
	return tasks, nil
}

// CreateTask adds a document and returns its generated ID.
func (s *Store) CreateTask(ctx context.Context, fields service.Fields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ref, _, err := s.client.Collection(s.collection).Add(ctx, map[string]any(fields))
	if err != nil {
		return "", wrapError(err)
	}
	return ref.ID, nil
}

// UpdateTask sets each key of partial on the document. The document must
// exist. An empty partial is a no-op.
func (s *Store) UpdateTask(ctx context.Context, id string, partial service.Fields) error {
	updates := Updates(partial)
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, updates)
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes the document. Deleting an absent document succeeds.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.client.Collection(s.collection).Doc(id).Delete(ctx)
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// Updates converts a partial field map into top-level field updates in
// sorted key order. Keys are used verbatim as single path segments, so a
// key containing dots is not treated as a nested path.
func Updates(partial service.Fields) []firestore.Update {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{k},
			Value:     partial[k],
		})
	}
	return updates
}

// wrapError maps gRPC status codes to service errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}
	if errors.Is(err, service.ErrSignedOut) {
		return service.ErrSignedOut
	}

	switch status.Code(err) {
	case codes.NotFound:
		return service.ErrNotFound
	case codes.Unauthenticated, codes.PermissionDenied:
		return service.ErrPermission
	case codes.DeadlineExceeded:
		return service.ErrTimeout
	}
	return err
}
