package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/service"
)

type subscriber struct {
	id int
	fn func(*service.User)
}

// FakeIdentity is an in-memory implementation of service.Identity.
// Subscribers are notified synchronously.
type FakeIdentity struct {
	mu       sync.Mutex
	user     *service.User
	accounts map[string]string // email -> password
	subs     []subscriber
	nextID   int

	// Error injection for testing
	SignInErr  error
	SignUpErr  error
	SignOutErr error
}

// NewFakeIdentity creates a FakeIdentity with nobody signed in.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{accounts: make(map[string]string)}
}

// NewSignedInIdentity creates a FakeIdentity with a signed-in user.
func NewSignedInIdentity(email string) *FakeIdentity {
	f := NewFakeIdentity()
	f.accounts[email] = "secret"
	f.user = &service.User{UID: "uid-" + email, Email: email}
	return f
}

// AddAccount registers an account that SignIn accepts.
func (f *FakeIdentity) AddAccount(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password
}

// SetUser changes the current user and notifies subscribers.
func (f *FakeIdentity) SetUser(u *service.User) {
	f.mu.Lock()
	f.user = u
	f.mu.Unlock()
	f.notify(u)
}

// Subscribers returns the number of active subscriptions.
func (f *FakeIdentity) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// CurrentUser implements service.Identity.
func (f *FakeIdentity) CurrentUser() *service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

// SignIn implements service.Identity.
func (f *FakeIdentity) SignIn(ctx context.Context, email, password string) (*service.User, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	f.mu.Lock()
	pw, ok := f.accounts[email]
	f.mu.Unlock()
	if !ok || pw != password {
		return nil, service.ErrInvalidCredentials
	}

	u := &service.User{UID: "uid-" + email, Email: email}
	f.SetUser(u)
	return u, nil
}

// SignUp implements service.Identity.
func (f *FakeIdentity) SignUp(ctx context.Context, email, password string) (*service.User, error) {
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	f.mu.Lock()
	if _, exists := f.accounts[email]; exists {
		f.mu.Unlock()
		return nil, service.ErrEmailExists
	}
	f.accounts[email] = password
	f.mu.Unlock()

	u := &service.User{UID: uuid.NewString(), Email: email}
	f.SetUser(u)
	return u, nil
}

// SignOut implements service.Identity.
func (f *FakeIdentity) SignOut(ctx context.Context) error {
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.SetUser(nil)
	return nil
}

// OnAuthStateChanged implements service.Identity.
func (f *FakeIdentity) OnAuthStateChanged(fn func(*service.User)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs = append(f.subs, subscriber{id: id, fn: fn})
	current := f.user
	f.mu.Unlock()

	fn(current)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.subs {
			if s.id == id {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				return
			}
		}
	}
}

func (f *FakeIdentity) notify(u *service.User) {
	f.mu.Lock()
	subs := make([]subscriber, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(u)
	}
}
