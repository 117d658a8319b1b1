// Package service defines the backend-agnostic interfaces for tasks and identity.
package service

import "context"

// Store is the document database holding task documents.
// Commands and the dashboard never import a database SDK directly.
type Store interface {
	// ListTasks returns every task document in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask stores a new document and returns its generated ID.
	CreateTask(ctx context.Context, fields Fields) (string, error)

	// UpdateTask applies a partial update to an existing document.
	UpdateTask(ctx context.Context, id string, partial Fields) error

	// DeleteTask removes a document. Deleting an absent ID is not an error.
	DeleteTask(ctx context.Context, id string) error
}

// Identity is the hosted identity service.
type Identity interface {
	// CurrentUser returns the signed-in user or nil.
	CurrentUser() *User

	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (*User, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) (*User, error)

	// SignOut ends the local session.
	SignOut(ctx context.Context) error

	// OnAuthStateChanged registers fn for auth state changes. fn is called
	// once immediately with the current user (nil when signed out), then on
	// every change. The returned function unsubscribes.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
}
