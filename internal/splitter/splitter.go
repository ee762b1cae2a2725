package splitter

import (
	"fmt"
	"strings"
	"time"

	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// CollisionPolicy decides what happens when two parts derive the same filename.
type CollisionPolicy string

const (
	// CollisionSuffix renames later files to <stem>_2.sql, <stem>_3.sql, ...
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionOverwrite lets the later part replace the earlier one.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionError aborts the split.
	CollisionError CollisionPolicy = "error"
)

// ParseCollisionPolicy validates a policy name. The empty string selects the default.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionPolicy(sqlsplit.DefaultCollisionPolicy), nil
	case CollisionSuffix, CollisionOverwrite, CollisionError:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown collision policy %q (want suffix, overwrite or error)", sqlsplit.ErrInvalidConfig, s)
	}
}

// Options controls naming and header synthesis.
type Options struct {
	// Source is the filename quoted in every header.
	Source string
	// Date is stamped into filenames (20060102) and headers (2006-01-02).
	Date time.Time
	// MaxNameLength caps the sanitized name; <= 0 disables truncation.
	MaxNameLength int
	// OnCollision selects the collision policy; empty means suffix.
	OnCollision CollisionPolicy
}

// DefaultOptions returns the options of a run with no configuration at all.
func DefaultOptions() Options {
	date, _ := time.Parse(sqlsplit.DateLayout, sqlsplit.DefaultDate)
	return Options{
		Source:        sqlsplit.DefaultSourceFile,
		Date:          date,
		MaxNameLength: sqlsplit.DefaultMaxNameLength,
		OnCollision:   CollisionSuffix,
	}
}

// DatePrefix returns the compact date used at the start of filenames.
func (o Options) DatePrefix() string {
	return o.Date.Format(sqlsplit.FilenameDateLayout)
}

// Segment is the text from one marker up to the next marker or end of document.
type Segment struct {
	Index      int    // Position among segments after the header
	Offset     int    // Byte offset in the source document
	Line       int    // 1-based line number of Offset
	Text       string // Raw segment text, marker included
	PartNumber int    // Parsed from the PARTE heading
	PartName   string // Parsed from the PARTE heading, trimmed
	Matched    bool   // False when no heading could be parsed
	Reason     string // Why the heading was rejected; empty when Matched
}

// OutputFile is one file the plan will write.
type OutputFile struct {
	Filename   string
	Content    string
	Body       string // Trimmed segment text
	PartNumber int
	PartName   string
	Segment    int // Index of the originating segment
}

// Collision records a filename derived by more than one segment.
type Collision struct {
	Filename string // Name both segments derived
	Segment  int    // Index of the later segment
	Previous int    // Index of the segment that claimed Filename first
	Resolved string // Name actually used by the later segment (empty when overwritten)
}

// Plan is the result of splitting a document.
type Plan struct {
	Source     string
	Date       time.Time
	Segments   []Segment
	Files      []OutputFile
	Skipped    []*SegmentError
	Collisions []Collision
}

// Summary holds the counters reported at the end of a run.
type Summary struct {
	Segments   int `json:"segments"`
	Files      int `json:"files"`
	Skipped    int `json:"skipped"`
	Collisions int `json:"collisions"`
}

// Summary counts segments, files, skipped segments and collisions.
func (p *Plan) Summary() Summary {
	return Summary{
		Segments:   len(p.Segments),
		Files:      len(p.Files),
		Skipped:    len(p.Skipped),
		Collisions: len(p.Collisions),
	}
}

// Filenames returns the names of all planned files in write order.
func (p *Plan) Filenames() []string {
	names := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		names = append(names, f.Filename)
	}
	return names
}

// Segments cuts document at every marker. The header before the first marker
// is not returned. Headings are parsed but no files are derived.
func Segments(document string) []Segment {
	bounds := findBoundaries(document)
	segments := make([]Segment, 0, len(bounds))

	line := 1
	prev := 0
	for i, start := range bounds {
		end := len(document)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		line += strings.Count(document[prev:start], "\n")
		prev = start

		text := document[start:end]
		number, name, reason, ok := parseHeading(text)
		segments = append(segments, Segment{
			Index:      i,
			Offset:     start,
			Line:       line,
			Text:       text,
			PartNumber: number,
			PartName:   name,
			Matched:    ok,
			Reason:     reason,
		})
	}
	return segments
}

// Split partitions document into output files.
//
// Segments without a parsable heading are reported in Plan.Skipped and produce
// no file. The only error is a filename collision under CollisionError.
func Split(document string, opts Options) (*Plan, error) {
	if opts.OnCollision == "" {
		opts.OnCollision = CollisionSuffix
	}

	plan := &Plan{
		Source:   opts.Source,
		Date:     opts.Date,
		Segments: Segments(document),
	}

	prefix := opts.DatePrefix()
	claimed := make(map[string]int) // filename -> index into plan.Files

	for _, seg := range plan.Segments {
		if !seg.Matched {
			plan.Skipped = append(plan.Skipped, newHeadingError(seg))
			continue
		}

		body := strings.TrimSpace(seg.Text)
		file := OutputFile{
			Filename:   Filename(prefix, seg.PartNumber, seg.PartName, opts.MaxNameLength),
			Body:       body,
			PartNumber: seg.PartNumber,
			PartName:   seg.PartName,
			Segment:    seg.Index,
		}
		file.Content = renderContent(file, opts)

		if at, taken := claimed[file.Filename]; taken {
			c := Collision{Filename: file.Filename, Segment: seg.Index, Previous: plan.Files[at].Segment}
			switch opts.OnCollision {
			case CollisionError:
				return nil, fmt.Errorf("%w: segments %d and %d both derive %s",
					sqlsplit.ErrNameCollision, c.Previous+1, c.Segment+1, c.Filename)
			case CollisionOverwrite:
				plan.Collisions = append(plan.Collisions, c)
				plan.Files = append(plan.Files[:at], plan.Files[at+1:]...)
				reindex(claimed, plan.Files)
			default:
				file.Filename = freeName(file.Filename, claimed)
				c.Resolved = file.Filename
				plan.Collisions = append(plan.Collisions, c)
			}
		}

		claimed[file.Filename] = len(plan.Files)
		plan.Files = append(plan.Files, file)
	}

	return plan, nil
}

// renderContent builds the synthesized header followed by the trimmed body.
func renderContent(f OutputFile, opts Options) string {
	var b strings.Builder
	b.Grow(len(f.Body) + 400)

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "-- BLOCCO %03d: %s\n", f.PartNumber, f.PartName)
	fmt.Fprintf(&b, "-- Estratto da: %s\n", opts.Source)
	fmt.Fprintf(&b, "-- Data: %s\n", opts.Date.Format(sqlsplit.DateLayout))
	b.WriteString(separator + "\n")
	b.WriteString("\n")
	b.WriteString(f.Body)
	b.WriteString("\n")
	return b.String()
}

// freeName returns the first <stem>_N.sql (N >= 2) not yet claimed.
func freeName(name string, claimed map[string]int) string {
	stem := strings.TrimSuffix(name, sqlsplit.OutputExtension)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, sqlsplit.OutputExtension)
		if _, taken := claimed[candidate]; !taken {
			return candidate
		}
	}
}

func reindex(claimed map[string]int, files []OutputFile) {
	for i, f := range files {
		claimed[f.Filename] = i
	}
}
