package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the dataset file does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrParse is returned when the file exists but cannot be read as a table.
	ErrParse = errors.New("dataset parse error")
	// ErrSchema matches any *SchemaError.
	ErrSchema = errors.New("dataset schema error")
	// ErrInvalidArgument is returned for bad query arguments (negative top-N, etc).
	ErrInvalidArgument = errors.New("invalid argument")
)

// SchemaError reports required columns that are absent from the loaded table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing column(s) %s", ErrSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
