package sqlsplit

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Split completed successfully
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (invalid args, invalid flags)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration
	ExitSourceMissing      = 11 // Source file not found
	ExitWriteFailed        = 12 // Output file could not be written
	ExitNameCollision      = 13 // Two segments derive the same filename
	ExitVerificationFailed = 14 // Files on disk differ from the source
)

const (
	// DefaultSourceFile is the migration file read when no source is configured.
	DefaultSourceFile = "migrazione_completa.sql"

	// DefaultOutputDir is where split files are written.
	DefaultOutputDir = "."

	// DefaultDate is the date stamped into filenames and headers.
	// Filenames use the compact form (20250110), headers the ISO form.
	DefaultDate = "2025-01-10"

	// DefaultMaxNameLength caps the sanitized part name used in filenames.
	DefaultMaxNameLength = 50

	// DefaultCollisionPolicy is applied when two segments derive the same filename.
	DefaultCollisionPolicy = "suffix"

	// DateLayout is the layout of configured dates (ISO 8601 calendar date).
	DateLayout = "2006-01-02"

	// FilenameDateLayout is the layout of the date prefix in output filenames.
	FilenameDateLayout = "20060102"

	// OutputExtension is appended to every emitted file.
	OutputExtension = ".sql"

	// ManifestSuffix is appended to the date prefix to name the manifest file.
	ManifestSuffix = "_manifest.yaml"
)

// MaxPreviewLength is the maximum number of characters of segment text
// quoted in warnings about skipped segments.
const MaxPreviewLength = 80
