package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError: a referenced guest, table or dish does not exist.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// InvalidStateError: the referenced entity exists but its current
// status forbids the operation. Retrying without user intervention
// (re-login, another table) will fail again.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

func InvalidState(format string, args ...any) error {
	return &InvalidStateError{Reason: fmt.Sprintf(format, args...)}
}

// TxAbortError: the store could not commit. No partial state persists,
// so the caller may retry the whole submission.
type TxAbortError struct {
	Err error
}

func (e *TxAbortError) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Err)
}

func (e *TxAbortError) Unwrap() error {
	return e.Err
}

func TxAbort(err error) error {
	return &TxAbortError{Err: err}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsTxAbort(err error) bool {
	var target *TxAbortError
	return errors.As(err, &target)
}
