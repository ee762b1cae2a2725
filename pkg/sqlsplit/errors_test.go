package sqlsplit

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid config", ErrInvalidConfig, ExitConfigError},
		{"wrapped source missing", fmt.Errorf("reading x.sql: %w", ErrSourceNotFound), ExitSourceMissing},
		{"wrapped write failure", fmt.Errorf("creating a.sql: %w", ErrWriteFailed), ExitWriteFailed},
		{"collision", fmt.Errorf("%w: a.sql", ErrNameCollision), ExitNameCollision},
		{"verification", ErrVerificationFailed, ExitVerificationFailed},
		{"unknown flag", errors.New("unknown flag: --nope"), ExitUsageError},
		{"too many args", errors.New("accepts 0 arg(s), received 2"), ExitUsageError},
		{"bad flag value", errors.New(`invalid argument "abc" for "--max-name-length" flag`), ExitUsageError},
		{"unclassified", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
