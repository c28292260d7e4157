package deeptoon

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Canonical Scalar Encoding
// ============================================================
//
// The literal grammar is the single source of truth for scalar text, shared
// by the encoder and the decoder. A scalar renders bare when it cannot be
// confused with a keyword, a number, or structure; otherwise it is quoted.

// canonNull returns the canonical null representation.
func canonNull() string {
	return "null"
}

// canonBool returns the canonical boolean representation.
func canonBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// canonInt returns the canonical integer representation.
func canonInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// floatExpLow and floatExpHigh bound the magnitudes rendered in plain
// decimal notation. Outside [1e-6, 1e21) floats switch to exponent form,
// matching ECMAScript Number-to-string behavior.
const (
	floatExpLow  = 1e-6
	floatExpHigh = 1e21
)

// canonFloat returns the canonical fractional-form representation: the
// shortest decimal text that round-trips, always containing '.' or 'e' so
// it re-reads as a float. Non-finite values have no literal; the encoder
// rejects them before reaching here.
func canonFloat(f float64) string {
	abs := math.Abs(f)
	var s string
	if abs != 0 && (abs < floatExpLow || abs >= floatExpHigh) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// canonString returns the canonical string representation under the active
// delimiter: bare when safe, quoted otherwise.
func canonString(s string, delim byte) string {
	if isBareSafe(s, delim) {
		return s
	}
	return quoteString(s)
}

// validDelimiter rejects delimiters that would make the grammar ambiguous:
// newlines, quotes, colons, brackets, braces, and any character that can
// appear inside a bare number or keyword. Shared by encoder and decoder.
func validDelimiter(d byte) bool {
	switch d {
	case '\n', '\r', '"', ':', '[', ']', '{', '}', '-', '+', '.', '_':
		return false
	}
	if d >= '0' && d <= '9' || d >= 'a' && d <= 'z' || d >= 'A' && d <= 'Z' {
		return false
	}
	return true
}

// ============================================================
// Bareness
// ============================================================

// isBareSafe checks if a string can be rendered without quotes: non-empty,
// no active delimiter, colon, quote, newline, bracket, or brace, no leading
// or trailing whitespace, and not mistakable for a reserved keyword or
// number.
func isBareSafe(s string, delim byte) bool {
	if len(s) == 0 {
		return false
	}

	switch s {
	case "null", "true", "false":
		return false
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case delim, ':', '"', '\n', '\r', '[', ']', '{', '}':
			return false
		}
	}

	return !matchesNumber(s)
}

// matchesNumber reports whether s matches the JSON number grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
// Strings that match must be quoted to stay strings on decode.
func matchesNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	// Integer part: 0 alone, or nonzero digit run
	if i >= len(s) || s[i] < '0' || s[i] > '9' {
		return false
	}
	if s[i] == '0' {
		i++
	} else {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	// Fraction
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	// Exponent
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}

// ============================================================
// String Quoting
// ============================================================

// quoteString returns a double-quoted string with backslash escapes for
// backslash, quote, newline, carriage return, and tab.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquoteString parses a quoted token starting at s[0] == '"'.
// Returns the unescaped content and the unconsumed remainder of s.
func unquoteString(s string, line int) (string, string, *DecodeError) {
	if len(s) == 0 || s[0] != '"' {
		return "", "", decodeErrf(ErrLiteral, line, "expected quoted string")
	}
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		switch c {
		case '"':
			return b.String(), s[i+1:], nil
		case '\\':
			if i+1 >= len(s) {
				return "", "", decodeErrf(ErrLiteral, line, "unterminated escape sequence")
			}
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", "", decodeErrf(ErrLiteral, line, "invalid escape sequence \\%c", s[i+1])
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", "", decodeErrf(ErrLiteral, line, "unterminated quoted string")
}

// ============================================================
// Bare Token Classification
// ============================================================

// classifyBare turns a bare token into a value: keyword first, then number,
// then string. The empty token is not a value.
func classifyBare(s string, line int) (*Value, *DecodeError) {
	switch s {
	case "":
		return nil, decodeErrf(ErrLiteral, line, "empty value")
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if strings.TrimSpace(s) != s {
		return nil, decodeErrf(ErrLiteral, line, "bare value %q has surrounding whitespace", s)
	}
	if strings.ContainsRune(s, '"') {
		return nil, decodeErrf(ErrLiteral, line, "unquoted value %q contains a quote", s)
	}
	if strings.ContainsAny(s, "[]{}") {
		return nil, decodeErrf(ErrLiteral, line, "unquoted value %q contains a bracket or brace", s)
	}

	if matchesNumber(s) {
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Int(n), nil
			}
			// Integral form beyond int64 range carries over as float.
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, decodeErrf(ErrLiteral, line, "malformed number %q", s)
		}
		return Float(f), nil
	}

	return Str(s), nil
}

// parseScalar parses a complete scalar token that must span all of s:
// a quoted string with nothing after the closing quote, or a bare token.
func parseScalar(s string, line int) (*Value, *DecodeError) {
	if len(s) > 0 && s[0] == '"' {
		content, rest, err := unquoteString(s, line)
		if err != nil {
			return nil, err
		}
		if rest != "" {
			return nil, decodeErrf(ErrLiteral, line, "unexpected text after quoted string: %q", rest)
		}
		return Str(content), nil
	}
	return classifyBare(s, line)
}
