package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestPersistence_WrapsUnclassified(t *testing.T) {
	t.Parallel()

	raw := errors.New("connection reset")
	err := Persistence(raw)

	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !errors.Is(err, raw) {
		t.Fatalf("expected original error to be preserved")
	}
}

func TestPersistence_KeepsClassified(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("period: not found: %w", ErrNotFound)
	if got := Persistence(notFound); got != notFound {
		t.Fatalf("expected classified error to pass through, got %v", got)
	}

	if Persistence(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestActor_RequireManager(t *testing.T) {
	t.Parallel()

	if err := (Actor{EmployeeID: "e", IsManager: true}).RequireManager(); err != nil {
		t.Fatalf("manager should pass, got %v", err)
	}
	if err := (Actor{EmployeeID: "e"}).RequireManager(); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
