package splitter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// markerRegex matches the three-line block that opens a part. Matches start on
// the first separator line, which is where segments are cut.
var markerRegex = regexp.MustCompile(`(?m)^-- ?={3,}[ \t\r]*\n-- ?PARTE[ \t]+\d+:[^\n]*\n-- ?={3,}[ \t\r]*$`)

// headingRegex extracts part number and name. The name runs to the end of its
// line and the following line must be a comment.
var headingRegex = regexp.MustCompile(`PARTE[ \t]+(\d+):[ \t]*(\S[^\r\n]*?)[ \t]*\r?\n--`)

// separator is the rule line used in synthesized headers.
var separator = "-- " + strings.Repeat("=", 76)

// findBoundaries returns the byte offsets at which each marker block begins.
func findBoundaries(document string) []int {
	locs := markerRegex.FindAllStringIndex(document, -1)
	offsets := make([]int, 0, len(locs))
	for _, loc := range locs {
		offsets = append(offsets, loc[0])
	}
	return offsets
}

// parseHeading finds the first PARTE heading in text. When none can be used,
// reason says why and ok is false.
func parseHeading(text string) (number int, name string, reason string, ok bool) {
	m := headingRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, "", reasonNoHeading, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Sprintf("part number %s is out of range", m[1]), false
	}
	return n, strings.TrimSpace(m[2]), "", true
}

const reasonNoHeading = "no 'PARTE <n>: <name>' heading found"
