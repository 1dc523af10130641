package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", New(ErrUsage, ExitFailure, "two args"), ExitFailure},
		{"wrapped file open", fmt.Errorf("indexing: %w", ErrFileOpen), ExitFileOpen},
		{"out of memory app error", Newf(ErrOutOfMemory, ExitOutOfMemory, "limit %d", 10), ExitOutOfMemory},
		{"app error without code", &AppError{Err: ErrOutOfMemory, Message: "x"}, ExitOutOfMemory},
		{"unknown", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("outer: %w", Newf(ErrFileOpen, ExitFileOpen, "%s", "book.txt"))
	assert.ErrorIs(t, err, ErrFileOpen)
	assert.Equal(t, "outer: cannot open file: book.txt", err.Error())
}
