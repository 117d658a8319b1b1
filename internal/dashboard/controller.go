// Package dashboard owns the in-memory task list and mediates every call to
// the backend session.
//
// Writes are two-phase: the remote call is awaited first, and only after it
// succeeds is the equivalent change applied to the in-memory list. A failed
// remote call leaves local state untouched. Nothing is re-read after a write.
package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"taskboard/internal/service"
)

// RouteLogin is the route requested when nobody is signed in.
const RouteLogin = "/login"

// Navigator changes the visible view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(route string) { f(route) }

type authState int

const (
	authUnknown authState = iota
	authSignedIn
	authSignedOut
)

// State is a copy of the controller's UI state.
type State struct {
	Tasks    []service.Task
	Filtered []service.Task
	Editing  *service.Task
	Query    string
	Loading  bool
	User     *service.User
}

// Controller holds the task list mirror, the search string, the editing
// selection and the loading flag. It is safe for concurrent use; backend
// calls are made without holding the lock.
type Controller struct {
	store  service.Store
	auth   service.Identity
	nav    Navigator
	logger zerolog.Logger

	mu        sync.Mutex
	tasks     []service.Task
	filtered  []service.Task
	editing   *service.Task
	query     string
	loading   bool
	user      *service.User
	authState authState
	unwatch   func()
}

// NewController creates a controller over the given backend handles.
func NewController(store service.Store, auth service.Identity, nav Navigator, logger zerolog.Logger) *Controller {
	return &Controller{
		store:    store,
		auth:     auth,
		nav:      nav,
		logger:   logger,
		filtered: []service.Task{},
	}
}

// Mount starts the auth subscription and performs the initial load.
func (c *Controller) Mount(ctx context.Context) error {
	c.WatchAuth()
	return c.LoadTasks(ctx)
}

// Unmount tears down the auth subscription.
func (c *Controller) Unmount() {
	c.mu.Lock()
	unwatch := c.unwatch
	c.unwatch = nil
	c.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
}

// LoadTasks reads the whole collection and replaces the in-memory list.
// The loading flag is set for the duration of the call. On failure the error
// is logged, the list keeps its prior value, and the error is returned.
func (c *Controller) LoadTasks(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("error fetching tasks")
		return err
	}

	c.mu.Lock()
	c.tasks = tasks
	c.filtered = Filter(c.tasks, c.query)
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(tasks)).Msg("loaded tasks")
	return nil
}

// WatchAuth subscribes to identity state changes until Unmount.
// The login route is requested once per transition to "no user".
func (c *Controller) WatchAuth() {
	c.mu.Lock()
	if c.unwatch != nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	unwatch := c.auth.OnAuthStateChanged(c.onAuthStateChanged)

	c.mu.Lock()
	c.unwatch = unwatch
	c.mu.Unlock()
}

func (c *Controller) onAuthStateChanged(user *service.User) {
	c.mu.Lock()
	if user != nil {
		c.user = user
		c.authState = authSignedIn
		c.mu.Unlock()
		c.logger.Debug().Str("uid", user.UID).Msg("user signed in")
		return
	}

	c.user = nil
	transition := c.authState != authSignedOut
	c.authState = authSignedOut
	c.mu.Unlock()

	if transition {
		c.logger.Debug().Msg("no user, redirecting to login")
		c.nav.Navigate(RouteLogin)
	}
}

// Logout signs out. Navigation follows from the auth subscription, or is
// requested directly when the controller isn't watching.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	watching := c.unwatch != nil
	c.mu.Unlock()

	if !watching {
		c.nav.Navigate(RouteLogin)
	}
	return nil
}

// SetSearch updates the search string and recomputes the filtered list.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.filtered = Filter(c.tasks, query)
}

// AddTask creates a document, then appends it to the in-memory list.
func (c *Controller) AddTask(ctx context.Context, fields service.Fields) (service.Task, error) {
	fields = fields.Clone()

	id, err := c.store.CreateTask(ctx, fields)
	if err != nil {
		return service.Task{}, err
	}

	task := service.Task{ID: id, Fields: fields}

	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.filtered = Filter(c.tasks, c.query)
	c.mu.Unlock()

	c.logger.Debug().Str("task_id", id).Msg("created task")
	return task, nil
}

// DeleteTask deletes a document, then drops it from the in-memory list.
// An ID missing from the list leaves it unchanged.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.tasks = slices.DeleteFunc(c.tasks, func(t service.Task) bool { return t.ID == id })
	c.filtered = Filter(c.tasks, c.query)
	if c.editing != nil && c.editing.ID == id {
		c.editing = nil
	}
	c.mu.Unlock()

	c.logger.Debug().Str("task_id", id).Msg("deleted task")
	return nil
}

// UpdateTask applies a partial update, merges the same fields into the
// in-memory record, and clears the editing selection.
func (c *Controller) UpdateTask(ctx context.Context, id string, partial service.Fields) error {
	partial = partial.Clone()

	if err := c.store.UpdateTask(ctx, id, partial); err != nil {
		return err
	}

	c.mu.Lock()
	for i, t := range c.tasks {
		if t.ID == id {
			c.tasks[i] = t.Merge(partial)
		}
	}
	c.filtered = Filter(c.tasks, c.query)
	c.editing = nil
	c.mu.Unlock()

	c.logger.Debug().Str("task_id", id).Msg("updated task")
	return nil
}

// Edit selects the task with the given ID for editing.
func (c *Controller) Edit(id string) (service.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tasks {
		if t.ID == id {
			selected := t.Merge(nil)
			c.editing = &selected
			return selected, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// CancelEdit clears the editing selection. No backend call is made.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Tasks:    slices.Clone(c.tasks),
		Filtered: slices.Clone(c.filtered),
		Query:    c.query,
		Loading:  c.loading,
		User:     c.user,
	}
	if c.editing != nil {
		editing := *c.editing
		s.Editing = &editing
	}
	return s
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}
