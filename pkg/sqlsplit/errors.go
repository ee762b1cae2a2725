package sqlsplit

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := w.Write(ctx, plan)
//	if errors.Is(err, sqlsplit.ErrWriteFailed) {
//	    // Handle a partially written split
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the source migration file does not exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrWriteFailed indicates an output file could not be written.
	ErrWriteFailed = errors.New("write failed")

	// ErrNameCollision indicates two segments derived the same output filename.
	ErrNameCollision = errors.New("filename collision")

	// ErrVerificationFailed indicates split files on disk do not match the source.
	ErrVerificationFailed = errors.New("verification failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteFailed
	case errors.Is(err, ErrNameCollision):
		return ExitNameCollision
	case errors.Is(err, ErrVerificationFailed):
		return ExitVerificationFailed
	}

	// cobra reports flag and argument problems as plain errors
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "accepts") && strings.Contains(errStr, "arg(s)") {
		return ExitUsageError
	}

	return ExitGeneralError
}
