package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource != "" && e.ID != "":
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	case e.Resource != "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return "not found"
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// StoreIOError is a transient persistence failure. The previously committed
// document is still intact, so the operation is safe to retry.
type StoreIOError struct {
	Op  string
	Err error
}

func (e StoreIOError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store io: %v", e.Err)
	}
	return fmt.Sprintf("store io (%s): %v", e.Op, e.Err)
}

func (e StoreIOError) Unwrap() error { return e.Err }

// StoreCorruptError means the persisted document could not be parsed.
// Retrying will not help.
type StoreCorruptError struct {
	Err error
}

func (e StoreCorruptError) Error() string {
	return fmt.Sprintf("store corrupt: %v", e.Err)
}

func (e StoreCorruptError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsStoreIO(err error) bool {
	var target StoreIOError
	return errors.As(err, &target)
}

func IsStoreCorrupt(err error) bool {
	var target StoreCorruptError
	return errors.As(err, &target)
}
