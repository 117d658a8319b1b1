// Package testutil provides in-memory backends and helpers for tests.
package testutil

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/service"
)

// FakeStore is an in-memory implementation of service.Store.
type FakeStore struct {
	mu   sync.Mutex
	docs []service.Task

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// ListCalls counts ListTasks invocations.
	ListCalls int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Seed adds a document with a fixed ID.
func (f *FakeStore) Seed(id string, fields service.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, service.Task{ID: id, Fields: fields.Clone()})
}

// Get returns a copy of the stored document.
func (f *FakeStore) Get(id string) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ID == id {
			return service.Task{ID: d.ID, Fields: d.Fields.Clone()}, true
		}
	}
	return service.Task{}, false
}

// Len returns the number of stored documents.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// ListTasks implements service.Store.
func (f *FakeStore) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	result := make([]service.Task, len(f.docs))
	for i, d := range f.docs {
		result[i] = service.Task{ID: d.ID, Fields: d.Fields.Clone()}
	}
	return result, nil
}

// CreateTask implements service.Store.
func (f *FakeStore) CreateTask(ctx context.Context, fields service.Fields) (string, error) {
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.NewString()
	f.docs = append(f.docs, service.Task{ID: id, Fields: fields.Clone()})
	return id, nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, id string, partial service.Fields) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, d := range f.docs {
		if d.ID == id {
			fields := d.Fields.Clone()
			maps.Copy(fields, partial)
			f.docs[i].Fields = fields
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = slices.DeleteFunc(f.docs, func(d service.Task) bool { return d.ID == id })
	return nil
}
