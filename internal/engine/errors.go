package engine

import (
	"errors"
	"fmt"

	"bulletquest/internal/storage"
)

// ValidationError is bad or missing user input. The message is safe to show
// as-is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError means the referenced entity is absent or not in a state the
// operation accepts. Hint tells the user what to do about it.
type NotFoundError struct {
	Entity string
	Key    string
	Hint   string
	Err    error
}

func (e NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	if e.Key == "" {
		msg = e.Entity + " not found"
	}
	if errors.Is(e.Err, storage.ErrAlreadyCompleted) {
		msg = fmt.Sprintf("%s %q is already completed", e.Entity, e.Key)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ConflictError is a duplicate create on a key that must stay unique.
type ConflictError struct {
	Entity string
	Key    string
	Hint   string
}

func (e ConflictError) Error() string {
	msg := fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// StorageUnavailableError is a transient infrastructure failure: a timeout or
// a lost connection. Callers retry later.
type StorageUnavailableError struct {
	Err error
}

func (e StorageUnavailableError) Error() string {
	return "storage unavailable: " + e.Err.Error()
}

func (e StorageUnavailableError) Unwrap() error { return e.Err }

// translate maps storage sentinels to the engine's error types.
func translate(err error, entity, key, hint string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrUnavailable):
		return StorageUnavailableError{Err: err}
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrAlreadyCompleted):
		return NotFoundError{Entity: entity, Key: key, Hint: hint, Err: err}
	case errors.Is(err, storage.ErrConflict):
		return ConflictError{Entity: entity, Key: key, Hint: hint}
	default:
		return err
	}
}

// unavailable wraps transient storage failures and passes everything else
// through, for calls whose not-found case is already handled.
func unavailable(err error) error {
	if err != nil && errors.Is(err, storage.ErrUnavailable) {
		var sue StorageUnavailableError
		if errors.As(err, &sue) {
			return err
		}
		return StorageUnavailableError{Err: err}
	}
	return err
}
