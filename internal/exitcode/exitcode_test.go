package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitcode.Success},
		{service.ErrSignedOut, exitcode.AuthError},
		{fmt.Errorf("list: %w", service.ErrPermission), exitcode.AuthError},
		{service.ErrInvalidCredentials, exitcode.AuthError},
		{service.ErrNotFound, exitcode.UserError},
		{service.ErrEmailExists, exitcode.UserError},
		{fmt.Errorf("%w: too short", service.ErrWeakPassword), exitcode.UserError},
		{service.ErrTimeout, exitcode.BackendError},
		{errors.New("connection reset"), exitcode.BackendError},
	}
	for _, tt := range tests {
		if got := exitcode.FromError(tt.err); got != tt.want {
			t.Errorf("FromError(%v): expected %d, got %d", tt.err, tt.want, got)
		}
	}
}
