package domain

import (
	"errors"
	"fmt"
)

// ErrNotResolvable is reported when no metadata source can name a CRS code.
var ErrNotResolvable = errors.New("crs code not resolvable")

// CommandError is a connectivity or protocol failure while executing an
// addon command. The command name identifies which call failed.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("addon command %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ResolutionError identifies the EPSG code that no source could resolve.
type ResolutionError struct {
	Code int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("EPSG:%d could not be resolved by any metadata source", e.Code)
}

func (e *ResolutionError) Unwrap() error { return ErrNotResolvable }

// FieldError reports a user-supplied field that is missing or not a valid
// number. It is local to validation and never reaches the gateway.
type FieldError struct {
	Field string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Value)
}
