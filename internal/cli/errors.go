package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/tgienger/planboard/internal/codec"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/store"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var valErr *store.ValidationError
	if errors.As(err, &valErr) {
		return NewCLIError(
			"nothing was changed",
			fmt.Sprintf("The %s %s %s", valErr.Entity, valErr.Field, valErr.Reason),
			err,
		)
	}

	switch {
	case errors.Is(err, codec.ErrDecode):
		return NewCLIError("the project data could not be read", "Check that the file is a planboard JSON export", err)
	case errors.Is(err, persist.ErrStorageUnavailable):
		return &CLIError{
			Message:  "storage is unavailable",
			Hint:     "Check that the data directory is writable, or pass --data-dir",
			Err:      err,
			ExitCode: 2,
		}
	case errors.Is(err, persist.ErrInvalidFilename):
		return NewCLIError("invalid file name", "Use letters, digits and dashes", err)
	case errors.Is(err, fs.ErrNotExist):
		return NewCLIError("file not found", "Check the path and try again", err)
	}

	return err
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return 1
}
