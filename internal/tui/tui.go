// Package tui implements the interactive terminal dashboard.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/config"
	"taskboard/internal/dashboard"
	"taskboard/internal/logging"
	"taskboard/internal/session"
)

// Run starts the dashboard and blocks until the user quits. Logs go to the
// log file in the config directory since the terminal is taken over.
func Run(ctx context.Context, cfg *config.Config, sess *session.Session, opts ...tea.ProgramOption) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	logger, closer, err := logging.NewFile(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	nav := newRouteChannel(logger)
	ctrl := dashboard.NewController(sess.Store, sess.Auth, nav, logger.With().Str("component", "dashboard").Logger())
	ctrl.WatchAuth()
	defer ctrl.Unmount()

	logger.Info().Msg("dashboard started")
	model := New(ctx, ctrl, sess.Auth, nav.ch, logger)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return err
	}
	logger.Info().Msg("dashboard stopped")
	return nil
}
