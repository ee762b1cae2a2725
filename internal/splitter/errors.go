package splitter

import (
	"fmt"
	"strings"

	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// SegmentError describes a segment that could not be turned into a file.
// It carries the segment position and a short preview to locate it in the source.
type SegmentError struct {
	Index   int    // Position among segments after the header (0-based)
	Line    int    // 1-based line of the segment start in the source
	Preview string // First line of the segment, shortened
	Message string // Primary message
	Hint    string // Actionable suggestion
}

// Error implements the error interface.
func (e *SegmentError) Error() string {
	msg := fmt.Sprintf("segment %d (line %d): %s", e.Index+1, e.Line, e.Message)
	if e.Preview != "" {
		msg += fmt.Sprintf(" [%s]", e.Preview)
	}
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

func newHeadingError(seg Segment) *SegmentError {
	reason := seg.Reason
	hint := "Give the part a non-empty name on the PARTE line, followed by a '-- ====' line."
	if reason == "" {
		reason = reasonNoHeading
	}
	if reason != reasonNoHeading {
		hint = "Part numbers must fit in a 64-bit signed integer."
	}
	return &SegmentError{
		Index:   seg.Index,
		Line:    seg.Line,
		Preview: preview(seg.Text),
		Message: reason + ", segment skipped",
		Hint:    hint,
	}
}

// preview returns the first non-blank line of text, shortened for log output.
func preview(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "-= ") == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > sqlsplit.MaxPreviewLength {
			return string(runes[:sqlsplit.MaxPreviewLength]) + "..."
		}
		return line
	}
	return ""
}
