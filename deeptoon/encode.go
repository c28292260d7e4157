package deeptoon

import (
	"math"
	"strconv"
	"strings"
)

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Delimiter separates header field names and row cells (default ',').
	// Must be a single byte that cannot occur inside a bare number or
	// keyword and does not collide with structural characters.
	Delimiter byte

	// Indent is the per-level indentation string (default two spaces).
	Indent string
}

// DefaultEncodeOptions returns the standard options.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Delimiter: ',', Indent: "  "}
}

// Encode converts a value to Deep-TOON text with default options.
// It fails only for non-finite numbers and duplicate object keys.
func Encode(v *Value) (string, error) {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions converts a value to Deep-TOON text.
func EncodeWithOptions(v *Value, opts EncodeOptions) (string, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	if err := validateDelimiter(opts.Delimiter); err != nil {
		return "", err
	}

	e := &encoder{opts: opts}
	if err := e.encodeRoot(v); err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

// validateDelimiter wraps the shared grammar check in an encode error.
func validateDelimiter(d byte) error {
	if !validDelimiter(d) {
		return encodeErrf("", "invalid delimiter %q", string(d))
	}
	return nil
}

type encoder struct {
	sb   strings.Builder
	opts EncodeOptions
	path []string
}

// encodeRoot emits the document for the top-level value. An empty object
// encodes to the empty document.
func (e *encoder) encodeRoot(v *Value) error {
	if v == nil {
		v = Null()
	}
	switch v.kind {
	case KindObject:
		if err := e.checkKeys(v.objVal); err != nil {
			return err
		}
		return e.writeFields(v.objVal, 0)
	case KindArray:
		e.newline(0)
		return e.writeArray(v.arrVal, 0)
	default:
		s, err := e.renderScalar(v)
		if err != nil {
			return err
		}
		e.newline(0)
		e.sb.WriteString(s)
		return nil
	}
}

// writeFields emits one line per object field at the given depth.
func (e *encoder) writeFields(fields []Field, depth int) error {
	for _, f := range fields {
		e.pushPath(f.Key)
		e.newline(depth)
		e.sb.WriteString(canonString(f.Key, e.opts.Delimiter))

		val := f.Value
		if val == nil {
			val = Null()
		}
		switch val.kind {
		case KindObject:
			e.sb.WriteByte(':')
			if err := e.checkKeys(val.objVal); err != nil {
				return err
			}
			if err := e.writeFields(val.objVal, depth+1); err != nil {
				return err
			}
		case KindArray:
			if err := e.writeArray(val.arrVal, depth); err != nil {
				return err
			}
		default:
			s, err := e.renderScalar(val)
			if err != nil {
				return err
			}
			e.sb.WriteString(": ")
			e.sb.WriteString(s)
		}
		e.popPath()
	}
	return nil
}

// writeArray appends the array header to the current line and emits the
// body one level deeper: delimited rows for tabular arrays, dash-marked
// blocks otherwise.
func (e *encoder) writeArray(elems []*Value, depth int) error {
	if isTabular(elems) {
		return e.writeTabular(elems, depth)
	}

	e.sb.WriteByte('[')
	e.sb.WriteString(strconv.Itoa(len(elems)))
	e.sb.WriteString("]:")

	for i, el := range elems {
		e.pushPath("[" + strconv.Itoa(i) + "]")
		if el == nil {
			el = Null()
		}
		e.newline(depth + 1)
		switch el.kind {
		case KindObject:
			e.sb.WriteByte('-')
			if err := e.checkKeys(el.objVal); err != nil {
				return err
			}
			if err := e.writeFields(el.objVal, depth+2); err != nil {
				return err
			}
		case KindArray:
			e.sb.WriteString("- ")
			if err := e.writeArray(el.arrVal, depth+1); err != nil {
				return err
			}
		default:
			s, err := e.renderScalar(el)
			if err != nil {
				return err
			}
			e.sb.WriteString("- ")
			e.sb.WriteString(s)
		}
		e.popPath()
	}
	return nil
}

// writeTabular emits a uniform object array as a header of shared field
// names plus one delimited row per element. This is the compression-critical
// path: keys appear once instead of once per element.
func (e *encoder) writeTabular(elems []*Value, depth int) error {
	header := elems[0].objVal
	if err := e.checkKeys(header); err != nil {
		return err
	}

	e.sb.WriteByte('[')
	e.sb.WriteString(strconv.Itoa(len(elems)))
	e.sb.WriteString("]{")
	for i, f := range header {
		if i > 0 {
			e.sb.WriteByte(e.opts.Delimiter)
		}
		e.sb.WriteString(canonString(f.Key, e.opts.Delimiter))
	}
	e.sb.WriteString("}:")

	for i, el := range elems {
		e.pushPath("[" + strconv.Itoa(i) + "]")
		e.newline(depth + 1)
		for j, f := range el.objVal {
			if j > 0 {
				e.sb.WriteByte(e.opts.Delimiter)
			}
			e.pushPath(f.Key)
			s, err := e.renderScalar(f.Value)
			if err != nil {
				return err
			}
			e.sb.WriteString(s)
			e.popPath()
		}
		e.popPath()
	}
	return nil
}

// renderScalar returns the literal text for a scalar value.
func (e *encoder) renderScalar(v *Value) (string, error) {
	if v == nil {
		return canonNull(), nil
	}
	switch v.kind {
	case KindNull:
		return canonNull(), nil
	case KindBool:
		return canonBool(v.boolVal), nil
	case KindInt:
		return canonInt(v.intVal), nil
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return "", encodeErrf(e.pathString(), "non-finite number has no literal form")
		}
		return canonFloat(v.floatVal), nil
	case KindStr:
		return canonString(v.strVal, e.opts.Delimiter), nil
	default:
		return "", encodeErrf(e.pathString(), "unexpected container in scalar position")
	}
}

// checkKeys rejects duplicate keys within one object.
func (e *encoder) checkKeys(fields []Field) error {
	if len(fields) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Key]; dup {
			return encodeErrf(e.pathString(), "duplicate object key %q", f.Key)
		}
		seen[f.Key] = struct{}{}
	}
	return nil
}

func (e *encoder) newline(depth int) {
	if e.sb.Len() > 0 {
		e.sb.WriteByte('\n')
	}
	for i := 0; i < depth; i++ {
		e.sb.WriteString(e.opts.Indent)
	}
}

func (e *encoder) pushPath(seg string) {
	e.path = append(e.path, seg)
}

func (e *encoder) popPath() {
	e.path = e.path[:len(e.path)-1]
}

func (e *encoder) pathString() string {
	var b strings.Builder
	for i, seg := range e.path {
		if i > 0 && seg != "" && seg[0] != '[' {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// ============================================================
// Tabular Eligibility
// ============================================================

// isTabular reports whether an array folds into tabular form: non-empty,
// every element an object, every element carrying the identical ordered key
// set, and every held value a scalar. The predicate is pinned: changing it
// changes the wire format.
func isTabular(elems []*Value) bool {
	if len(elems) == 0 {
		return false
	}
	first := elems[0]
	if first == nil || first.kind != KindObject {
		return false
	}
	keys := first.objVal
	if len(keys) == 0 {
		return false
	}

	for _, el := range elems {
		if el == nil || el.kind != KindObject {
			return false
		}
		if len(el.objVal) != len(keys) {
			return false
		}
		for i, f := range el.objVal {
			if f.Key != keys[i].Key {
				return false
			}
			if f.Value != nil {
				switch f.Value.kind {
				case KindArray, KindObject:
					return false
				}
			}
		}
	}
	return true
}
