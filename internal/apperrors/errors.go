package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation violated a business rule on the
// current state of the entity (e.g. undoing a reconciliation that never happened).
var ErrInvalidState = errors.New("invalid state for operation")

// ErrNoValidRecords indicates that a statement file was parsed but produced zero
// usable lines. Use NoValidRecordsError to carry the per-row diagnostics.
var ErrNoValidRecords = errors.New("no valid records in file")
