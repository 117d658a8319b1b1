package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// routeMsg is delivered when the controller requests a route change.
type routeMsg string

// routeChannel is a dashboard.Navigator that hands requested routes to the
// program through a buffered channel.
type routeChannel struct {
	ch     chan string
	logger zerolog.Logger
}

func newRouteChannel(logger zerolog.Logger) *routeChannel {
	return &routeChannel{ch: make(chan string, 16), logger: logger}
}

// Navigate never blocks. Routes requested while the buffer is full are
// dropped.
func (r *routeChannel) Navigate(route string) {
	select {
	case r.ch <- route:
	default:
		r.logger.Warn().Str("route", route).Msg("route dropped")
	}
}

// waitForRoute returns a command that blocks until the next route arrives.
func waitForRoute(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		route, ok := <-ch
		if !ok {
			return nil
		}
		return routeMsg(route)
	}
}
