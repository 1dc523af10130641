package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUsage              = errors.New("usage error")
	ErrFileOpen           = errors.New("cannot open file")
	ErrOutOfMemory        = errors.New("out of memory")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInternal           = errors.New("internal error")
)

// Process exit codes returned by the CLI.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitFileOpen    = 2
	ExitOutOfMemory = 3
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrFileOpen):
		return ExitFileOpen
	case errors.Is(err, ErrOutOfMemory):
		return ExitOutOfMemory
	default:
		return ExitFailure
	}
}
