package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brightfeed/brightfeed/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid comment", inner)

	if err.Error() != "invalid comment: parse failed" {
		t.Errorf("expected 'invalid comment: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestAuthRequiredError_Message(t *testing.T) {
	err := apperr.NewAuthRequired("like")
	if err.Error() != "authentication required for like" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	bare := apperr.NewAuthRequired("")
	if bare.Error() != "authentication required" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}

func TestNotSyncedError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewNotSynced("article not yet synchronized")

	wrapped := fmt.Errorf("post comment: %w", original)
	doubleWrapped := fmt.Errorf("handler: %w", wrapped)

	var nse *apperr.NotSyncedError
	if !errors.As(doubleWrapped, &nse) {
		t.Fatal("errors.As should find NotSyncedError through double wrapping")
	}
	if nse.Message != "article not yet synchronized" {
		t.Errorf("expected 'article not yet synchronized', got %q", nse.Message)
	}
}

func TestTypedErrors_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ae *apperr.AuthRequiredError
	if errors.As(wrapped, &ae) {
		t.Fatal("errors.As should NOT find AuthRequiredError in plain error chain")
	}
}
