package deeptoon

import (
	"errors"
	"fmt"
)

// ErrorKind classifies decode failures.
type ErrorKind uint8

const (
	// ErrIndentation: a line's depth is not a valid increment from its
	// parsing context.
	ErrIndentation ErrorKind = iota
	// ErrStructuralCount: a declared element/row count does not match the
	// rows or elements actually present, or a row's cell count does not
	// match the header's field count.
	ErrStructuralCount
	// ErrLiteral: an unterminated quoted string, an invalid escape, or a
	// token that cannot be classified as null/bool/number/string.
	ErrLiteral
	// ErrDepthLimit: nesting exceeds the configured maximum.
	ErrDepthLimit
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrIndentation:
		return "indentation"
	case ErrStructuralCount:
		return "structural count"
	case ErrLiteral:
		return "literal"
	case ErrDepthLimit:
		return "depth limit"
	default:
		return "unknown"
	}
}

// Sentinel errors matching each ErrorKind, for errors.Is checks.
var (
	ErrIndentationError     = errors.New("deeptoon: indentation error")
	ErrStructuralCountError = errors.New("deeptoon: structural count error")
	ErrLiteralError         = errors.New("deeptoon: literal error")
	ErrDepthLimitError      = errors.New("deeptoon: depth limit error")
)

// DecodeError is the terminal error for a decode call. The decoder never
// returns a partial value alongside it.
type DecodeError struct {
	Kind    ErrorKind
	Message string
	Line    int // 1-based line number in the original input, 0 if unknown
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("deeptoon: %s error at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("deeptoon: %s error: %s", e.Kind, e.Message)
}

// Is matches the sentinel for this error's kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrIndentationError:
		return e.Kind == ErrIndentation
	case ErrStructuralCountError:
		return e.Kind == ErrStructuralCount
	case ErrLiteralError:
		return e.Kind == ErrLiteral
	case ErrDepthLimitError:
		return e.Kind == ErrDepthLimit
	}
	return false
}

func decodeErrf(kind ErrorKind, line int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// EncodeError reports a value that has no Deep-TOON representation.
// Encoding is total apart from non-finite numbers and duplicate object keys.
type EncodeError struct {
	Path    string // dotted path to the offending value, e.g. "items[2].score"
	Message string
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("deeptoon: encode error: %s", e.Message)
	}
	return fmt.Sprintf("deeptoon: encode error at %s: %s", e.Path, e.Message)
}

func encodeErrf(path string, format string, args ...interface{}) *EncodeError {
	return &EncodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}
