package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Calculator computes file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum that ignores comments, and case and
	// layout outside of string literals.
	CalculateNormalized(content []byte) string
}

// SHA256 implements Calculator with SHA-256. It is a zero-size value type.
type SHA256 struct{}

// New creates a SHA-256 calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of content.
func (SHA256) CalculateRaw(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CalculateNormalized computes SHA-256 of the normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	sum := sha256.Sum256([]byte(normalize(string(content))))
	return hex.EncodeToString(sum[:])
}

// normalize strips comments, then lowercases and collapses whitespace outside
// of literals. Single-quoted and dollar-quoted literals are kept byte for byte.
func normalize(content string) string {
	cleaned := stripComments(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	lastWasSpace := false
	for i := 0; i < len(cleaned); {
		if lit := literalAt(cleaned, i); lit != "" {
			b.WriteString(lit)
			i += len(lit)
			lastWasSpace = false
			continue
		}

		r, size := utf8.DecodeRuneInString(cleaned[i:])
		i += size
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(unicode.ToLower(r))
		lastWasSpace = false
	}

	return strings.TrimSpace(b.String())
}

// literalAt returns the single-quoted or dollar-quoted literal starting at i,
// or "" when none starts there. An unterminated literal runs to the end of s.
func literalAt(s string, i int) string {
	switch s[i] {
	case '\'':
		for j := i + 1; j < len(s); j++ {
			if s[j] != '\'' {
				continue
			}
			if j+1 < len(s) && s[j+1] == '\'' {
				j++
				continue
			}
			return s[i : j+1]
		}
		return s[i:]
	case '$':
		tag := dollarTag(s, i)
		if tag == "" {
			return ""
		}
		if end := strings.Index(s[i+len(tag):], tag); end >= 0 {
			return s[i : i+len(tag)+end+len(tag)]
		}
		return s[i:]
	}
	return ""
}

type lexState int

const (
	inCode lexState = iota
	inLineComment
	inBlockComment
	inString
	inDollarString
)

// stripComments replaces -- and /* */ comments with a single space.
// Single-quoted and dollar-quoted literals are copied verbatim and block
// comments nest, as in PostgreSQL.
func stripComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := inCode
	depth := 0
	tag := ""

	for i := 0; i < len(content); {
		ch := content[i]
		var next byte
		if i+1 < len(content) {
			next = content[i+1]
		}

		switch state {
		case inCode:
			switch {
			case ch == '-' && next == '-':
				state = inLineComment
				b.WriteByte(' ')
				i += 2
			case ch == '/' && next == '*':
				state = inBlockComment
				depth = 1
				b.WriteByte(' ')
				i += 2
			case ch == '\'':
				state = inString
				b.WriteByte(ch)
				i++
			case ch == '$':
				if t := dollarTag(content, i); t != "" {
					state = inDollarString
					tag = t
					b.WriteString(t)
					i += len(t)
				} else {
					b.WriteByte(ch)
					i++
				}
			default:
				b.WriteByte(ch)
				i++
			}

		case inLineComment:
			if ch == '\n' {
				b.WriteByte(ch)
				state = inCode
			}
			i++

		case inBlockComment:
			switch {
			case ch == '/' && next == '*':
				depth++
				i += 2
			case ch == '*' && next == '/':
				depth--
				i += 2
				if depth == 0 {
					state = inCode
				}
			default:
				i++
			}

		case inString:
			b.WriteByte(ch)
			i++
			if ch == '\'' {
				if next == '\'' {
					b.WriteByte(next)
					i++
				} else {
					state = inCode
				}
			}

		case inDollarString:
			if strings.HasPrefix(content[i:], tag) {
				b.WriteString(tag)
				i += len(tag)
				state = inCode
				tag = ""
			} else {
				b.WriteByte(ch)
				i++
			}
		}
	}

	return b.String()
}

// dollarTag returns the dollar-quote opener ($$ or $tag$) at position i, or "".
func dollarTag(s string, i int) string {
	for j := i + 1; j < len(s); j++ {
		ch := s[j]
		if ch == '$' {
			return s[i : j+1]
		}
		isLetter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		isDigit := ch >= '0' && ch <= '9'
		if !isLetter && !(isDigit && j > i+1) {
			return ""
		}
	}
	return ""
}
