package splitter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// SanitizeName turns a free-text part name into a filename fragment.
//
// Characters other than letters, digits and whitespace are dropped, each run of
// whitespace becomes a single underscore, the result is cut to maxLen runes and
// lowercased. A maxLen of zero or less disables truncation.
func SanitizeName(name string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(name))

	inSpace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteRune('_')
				inSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			inSpace = false
		}
	}

	out := b.String()
	if maxLen > 0 {
		runes := []rune(out)
		if len(runes) > maxLen {
			out = string(runes[:maxLen])
		}
	}
	return strings.ToLower(out)
}

// Filename derives the output filename for a part.
//
//	Filename("20250110", 7, "Add Users Table!", 50) == "20250110_007_add_users_table.sql"
func Filename(datePrefix string, part int, name string, maxLen int) string {
	return fmt.Sprintf("%s_%03d_%s%s", datePrefix, part, SanitizeName(name, maxLen), sqlsplit.OutputExtension)
}
