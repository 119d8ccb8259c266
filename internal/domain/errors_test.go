package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrappersKeepSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		check    func(error) bool
	}{
		{"not found", NotFoundf("car %s", "abc"), ErrNotFound, IsNotFound},
		{"conflict", Conflictf("car with vin %s", "VIN1"), ErrAlreadyExists, IsConflict},
		{"access denied", AccessDeniedf("role %s", "CUSTOMER"), ErrAccessDenied, IsAccessDenied},
		{"bad request", BadRequestf("vin is required"), ErrBadRequest, func(err error) bool { return errors.Is(err, ErrBadRequest) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected %v to wrap %v", tt.err, tt.sentinel)
			}
			if !tt.check(tt.err) {
				t.Errorf("helper did not match %v", tt.err)
			}
		})
	}
}

func TestWrappersFormatDetail(t *testing.T) {
	err := Conflictf("car with registration number %s", "A123BC")
	if !strings.Contains(err.Error(), "A123BC") {
		t.Errorf("expected detail in message, got %q", err.Error())
	}
}

func TestAccountInactiveIsAccessDenied(t *testing.T) {
	if !IsAccessDenied(ErrAccountInactive) {
		t.Error("ErrAccountInactive should be an access denied error")
	}
	wrapped := fmt.Errorf("authorize: %w", ErrAccountInactive)
	if !errors.Is(wrapped, ErrAccountInactive) {
		t.Error("wrapped error should still match ErrAccountInactive")
	}
}
