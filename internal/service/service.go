// Package service holds the business rules of the restaurant on top of
// storage.Store: input validation and normalization, generated IDs, default
// values and the derived amounts (item subtotal, order total, cash change).
package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/restaurante/backend/internal/validation"
)

// now is replaced in tests.
var now = time.Now

// ValidationError reports input that breaks a rule. Fields lists the
// failing fields when the check was tag-based. Reason is set otherwise.
type ValidationError struct {
	Fields []validation.FieldError
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input: " + e.Reason
	}
	parts := lo.Map(e.Fields, func(f validation.FieldError, _ int) string { return f.String() })
	return "invalid input: " + strings.Join(parts, "; ")
}

func invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// check validates v against its `validate` tags.
func check(v any) error {
	fields, err := validation.Struct(v)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ensureID fills an empty ID with a UUID.
func ensureID(id *string) {
	*id = strings.TrimSpace(*id)
	if *id == "" {
		*id = uuid.New().String()
	}
}

// requireID rejects an empty key on update or delete.
func requireID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid(name + " is required")
	}
	return nil
}

// done logs the outcome of op and returns err unchanged.
func done(op string, err error, args ...any) error {
	var verr *ValidationError
	switch {
	case err == nil:
		slog.Info(op+" successful", args...)
	case errors.As(err, &verr):
		slog.Warn(op+" rejected", append(args, "error", err)...)
	default:
		slog.Error(op+" failed", append(args, "error", err)...)
	}
	return err
}

func today() string {
	return now().Format(time.DateOnly)
}
