package apperrors

import (
	"fmt"

	"github.com/conectcrm/conciliador/internal/statement"
)

// NoValidRecordsError is returned when a statement file parsed but yielded
// zero usable lines. It carries the bounded row-error list for diagnostics.
type NoValidRecordsError struct {
	RowErrors []statement.RowError
}

func (e *NoValidRecordsError) Error() string {
	return fmt.Sprintf("no valid records in file (%d row errors)", len(e.RowErrors))
}

func (e *NoValidRecordsError) Unwrap() error {
	return ErrNoValidRecords
}
