// Package session constructs the backend handles shared by every command:
// one document store and one identity client per process.
package session

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"taskboard/internal/backend/firestoredb"
	"taskboard/internal/backend/identity"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

// Session holds the initialized backend handles. It is created once at
// process start and passed by reference to whatever needs it.
type Session struct {
	Store service.Store
	Auth  service.Identity
}

// New builds a session from the project configuration and the persisted
// token in cfg's directory. Database calls authenticate as the signed-in user.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	project, err := cfg.LoadProject()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	auth, err := identity.New(ctx, identity.Options{
		APIKey:    project.APIKey,
		TokenPath: cfg.TokenPath(),
		Logger:    logger.With().Str("component", "identity").Logger(),
	})
	if err != nil {
		return nil, err
	}

	store, err := firestoredb.New(ctx, project, auth.TokenSource(),
		logger.With().Str("component", "firestore").Logger())
	if err != nil {
		return nil, err
	}

	return &Session{Store: store, Auth: auth}, nil
}

// Close releases backend connections.
func (s *Session) Close() error {
	if c, ok := s.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
