package deeptoon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value trees. The stdlib map type would lose
// object key order, so objects are read and written at the token level.

// FromJSON parses JSON bytes into a value, preserving object key order and
// the int/float split of each number's textual form. Duplicate object keys
// are rejected.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("deeptoon: json parse: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("deeptoon: json parse: trailing content after value")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return readJSONToken(dec, tok)
}

func readJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		return numberValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			fields := []Field{}
			seen := map[string]struct{}{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				if _, dup := seen[key]; dup {
					return nil, fmt.Errorf("duplicate object key %q", key)
				}
				seen[key] = struct{}{}

				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return Object(fields...), nil

		case '[':
			elems := []*Value{}
			for dec.More() {
				el, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return Array(elems...), nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// numberValue splits a JSON number into Int or Float on textual form:
// no '.', 'e', or 'E' means integer, unless the value overflows int64.
func numberValue(n json.Number) *Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i)
		}
	}
	f, err := n.Float64()
	if err != nil {
		// json.Decoder already validated the grammar; an unparseable
		// magnitude saturates to infinity and is caught on encode.
		f = math.Inf(1)
	}
	return Float(f)
}

// ToJSON renders a value as minimal separator-tight JSON with object key
// order preserved. This is also the smart-encode baseline serialization.
func ToJSON(v *Value) ([]byte, error) {
	var b bytes.Buffer
	if err := appendJSON(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func appendJSON(b *bytes.Buffer, v *Value) error {
	if v == nil {
		b.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(canonBool(v.boolVal))
	case KindInt:
		b.WriteString(canonInt(v.intVal))
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return encodeErrf("", "non-finite number has no JSON form")
		}
		b.WriteString(canonFloat(v.floatVal))
	case KindStr:
		writeJSONString(b, v.strVal)
	case KindArray:
		b.WriteByte('[')
		for i, el := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendJSON(b, el); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, f.Key)
			b.WriteByte(':')
			if err := appendJSON(b, f.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}

// writeJSONString emits a JSON string literal with minimal escaping.
func writeJSONString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

// ============================================================
// Convenience Round-Trips
// ============================================================

// EncodeJSON converts JSON bytes directly to Deep-TOON text.
func EncodeJSON(data []byte) (string, error) {
	v, err := FromJSON(data)
	if err != nil {
		return "", err
	}
	return Encode(v)
}

// DecodeJSON converts Deep-TOON text directly to minimal JSON bytes.
func DecodeJSON(text string) ([]byte, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return ToJSON(v)
}
