package deeptoon

import (
	"strconv"
	"strings"
)

// DecodeOptions configures the decoder.
type DecodeOptions struct {
	// Delimiter separates header field names and row cells (default ',').
	// Must match the delimiter the text was encoded with.
	Delimiter byte

	// MaxDepth bounds container nesting (default 64). Exceeding it fails
	// with a depth-limit error instead of recursing unboundedly.
	MaxDepth int

	// IndentWidth is the number of spaces per indentation level (default 2).
	IndentWidth int
}

// DefaultDecodeOptions returns the standard options.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Delimiter: ',', MaxDepth: 64, IndentWidth: 2}
}

// Decode parses Deep-TOON text into a value with default options.
// It returns either a complete value or a *DecodeError, never both.
func Decode(text string) (*Value, error) {
	return DecodeWithOptions(text, DefaultDecodeOptions())
}

// DecodeWithOptions parses Deep-TOON text into a value.
func DecodeWithOptions(text string, opts DecodeOptions) (*Value, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 64
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 2
	}
	if !validDelimiter(opts.Delimiter) {
		return nil, decodeErrf(ErrLiteral, 0, "invalid delimiter %q", string(opts.Delimiter))
	}

	lines, derr := scanLines(text, opts.IndentWidth)
	if derr != nil {
		return nil, derr
	}

	p := &parser{lines: lines, opts: opts}
	v, derr := p.parseRoot()
	if derr != nil {
		return nil, derr
	}
	return v, nil
}

// ============================================================
// Line Scanner
// ============================================================

// srcLine is one significant input line: indentation is load-bearing, so
// the scanner records the depth alongside the content.
type srcLine struct {
	num   int // 1-based line number in the original input
	depth int
	text  string
}

// scanLines normalizes line endings, drops blank lines, and converts
// leading spaces to depths. Tabs and partial indents are rejected here,
// before any structure is parsed.
func scanLines(input string, width int) ([]srcLine, *DecodeError) {
	var lines []srcLine
	for num, raw := range strings.Split(input, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		indent := 0
		for indent < len(raw) && raw[indent] == ' ' {
			indent++
		}
		if indent < len(raw) && raw[indent] == '\t' {
			return nil, decodeErrf(ErrIndentation, num+1, "tab character in indentation")
		}
		if indent%width != 0 {
			return nil, decodeErrf(ErrIndentation, num+1, "indent of %d spaces is not a multiple of %d", indent, width)
		}

		lines = append(lines, srcLine{num: num + 1, depth: indent / width, text: raw[indent:]})
	}
	return lines, nil
}

// ============================================================
// Recursive Descent Parser
// ============================================================

type parser struct {
	lines []srcLine
	pos   int
	opts  DecodeOptions
}

func (p *parser) peek() *srcLine {
	if p.pos >= len(p.lines) {
		return nil
	}
	return &p.lines[p.pos]
}

func (p *parser) lastLineNum() int {
	if len(p.lines) == 0 {
		return 0
	}
	return p.lines[len(p.lines)-1].num
}

// parseRoot parses the whole document. The empty document is the empty
// object; everything else is a single root value at depth zero.
func (p *parser) parseRoot() (*Value, *DecodeError) {
	if len(p.lines) == 0 {
		return Object(), nil
	}
	first := p.lines[0]
	if first.depth != 0 {
		return nil, decodeErrf(ErrIndentation, first.num, "document must start at depth 0")
	}

	var v *Value
	var derr *DecodeError
	switch {
	case first.text[0] == '[':
		hdr, herr := p.parseArrayHeader(first.text, first.num)
		if herr != nil {
			return nil, herr
		}
		p.pos++
		v, derr = p.parseArrayBody(hdr, 0, 1)
	case p.isFieldLine(first.text):
		v, derr = p.parseObject(0, 1)
	default:
		p.pos++
		v, derr = parseScalar(first.text, first.num)
	}
	if derr != nil {
		return nil, derr
	}

	if rest := p.peek(); rest != nil {
		return nil, decodeErrf(ErrStructuralCount, rest.num, "unexpected content after document root")
	}
	return v, nil
}

// isFieldLine reports whether a line introduces an object field ("key: ...",
// "key:", or "key[N]..."). Bare scalars cannot contain a colon, so the test
// is unambiguous.
func (p *parser) isFieldLine(text string) bool {
	if text[0] == '"' {
		_, rest, err := unquoteString(text, 0)
		return err == nil && rest != "" && (rest[0] == ':' || rest[0] == '[')
	}
	return strings.IndexByte(text, ':') >= 0
}

// parseObject consumes "key: value" lines at the given depth until the
// input dedents. Called for a "key:" line with no indented block, it
// returns the empty object.
func (p *parser) parseObject(depth, level int) (*Value, *DecodeError) {
	if level > p.opts.MaxDepth {
		return nil, decodeErrf(ErrDepthLimit, p.lineNumHere(), "nesting exceeds maximum depth %d", p.opts.MaxDepth)
	}

	fields := []Field{}
	seen := map[string]struct{}{}
	for {
		ln := p.peek()
		if ln == nil || ln.depth < depth {
			break
		}
		if ln.depth > depth {
			return nil, decodeErrf(ErrIndentation, ln.num, "unexpected indent")
		}

		key, rest, derr := p.parseKeyToken(ln)
		if derr != nil {
			return nil, derr
		}
		if _, dup := seen[key]; dup {
			return nil, decodeErrf(ErrStructuralCount, ln.num, "duplicate object key %q", key)
		}
		seen[key] = struct{}{}

		val, derr := p.parseFieldValue(rest, ln, depth, level)
		if derr != nil {
			return nil, derr
		}
		fields = append(fields, Field{Key: key, Value: val})
	}
	return Object(fields...), nil
}

// parseKeyToken splits a field line into its key and the remainder
// (starting at ':' or '[').
func (p *parser) parseKeyToken(ln *srcLine) (string, string, *DecodeError) {
	text := ln.text
	if text[0] == '"' {
		key, rest, derr := unquoteString(text, ln.num)
		if derr != nil {
			return "", "", derr
		}
		return key, rest, nil
	}

	idx := strings.IndexAny(text, ":[")
	if idx < 0 {
		return "", "", decodeErrf(ErrLiteral, ln.num, "expected \"key: value\" line")
	}
	key := text[:idx]
	if key == "" {
		return "", "", decodeErrf(ErrLiteral, ln.num, "empty object key")
	}
	if strings.ContainsAny(key, `"[]{}`) {
		return "", "", decodeErrf(ErrLiteral, ln.num, "unquoted key %q contains a structural character", key)
	}
	return key, text[idx:], nil
}

// parseFieldValue parses what follows a key: an array header, an inline
// scalar, or an indented object block. The field line is consumed here.
func (p *parser) parseFieldValue(rest string, ln *srcLine, depth, level int) (*Value, *DecodeError) {
	switch {
	case rest == "":
		return nil, decodeErrf(ErrLiteral, ln.num, "expected ':' after key")

	case rest[0] == '[':
		hdr, derr := p.parseArrayHeader(rest, ln.num)
		if derr != nil {
			return nil, derr
		}
		p.pos++
		return p.parseArrayBody(hdr, ln.depth, level+1)

	case rest == ":":
		p.pos++
		return p.parseObject(depth+1, level+1)

	case strings.HasPrefix(rest, ": "):
		p.pos++
		return parseScalar(rest[2:], ln.num)

	default:
		return nil, decodeErrf(ErrLiteral, ln.num, "expected space after ':'")
	}
}

// ============================================================
// Array Parsing
// ============================================================

// arrayHeader is a parsed "[N]:" or "[N]{f1,f2}:" marker.
type arrayHeader struct {
	count   int
	columns []string // nil for list fallback
	line    int
}

// parseArrayHeader parses an array header from s, which must span the rest
// of the line: declared length, optional column list, terminating colon.
func (p *parser) parseArrayHeader(s string, num int) (*arrayHeader, *DecodeError) {
	if len(s) == 0 || s[0] != '[' {
		return nil, decodeErrf(ErrLiteral, num, "expected array header")
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return nil, decodeErrf(ErrLiteral, num, "array header missing ']'")
	}
	count, err := strconv.Atoi(s[1:end])
	if err != nil || count < 0 {
		return nil, decodeErrf(ErrLiteral, num, "malformed array length %q", s[1:end])
	}

	hdr := &arrayHeader{count: count, line: num}
	rest := s[end+1:]

	if strings.HasPrefix(rest, "{") {
		cols, remain, derr := p.parseColumnList(rest[1:], num)
		if derr != nil {
			return nil, derr
		}
		hdr.columns = cols
		rest = remain
		if count == 0 {
			return nil, decodeErrf(ErrStructuralCount, num, "tabular header declares zero rows")
		}
	}

	if rest != ":" {
		return nil, decodeErrf(ErrLiteral, num, "array header must end with ':'")
	}
	return hdr, nil
}

// parseColumnList parses delimiter-separated field names up to the closing
// '}' and returns the remainder of the line.
func (p *parser) parseColumnList(s string, num int) ([]string, string, *DecodeError) {
	var cols []string
	for {
		if len(s) == 0 {
			return nil, "", decodeErrf(ErrLiteral, num, "array header missing '}'")
		}
		var name string
		if s[0] == '"' {
			var derr *DecodeError
			name, s, derr = unquoteString(s, num)
			if derr != nil {
				return nil, "", derr
			}
		} else {
			idx := 0
			for idx < len(s) && s[idx] != p.opts.Delimiter && s[idx] != '}' {
				idx++
			}
			name = s[:idx]
			s = s[idx:]
			if name == "" {
				return nil, "", decodeErrf(ErrLiteral, num, "empty column name")
			}
			if strings.ContainsAny(name, `"[]{`) {
				return nil, "", decodeErrf(ErrLiteral, num, "unquoted column %q contains a structural character", name)
			}
		}
		cols = append(cols, name)

		if len(s) == 0 {
			return nil, "", decodeErrf(ErrLiteral, num, "array header missing '}'")
		}
		switch s[0] {
		case '}':
			return cols, s[1:], nil
		case p.opts.Delimiter:
			s = s[1:]
		default:
			return nil, "", decodeErrf(ErrLiteral, num, "unexpected character %q in column list", s[0])
		}
	}
}

// parseArrayBody dispatches to tabular rows or dash-marked element blocks.
// The header line sits at hdrDepth; the body is one level deeper.
func (p *parser) parseArrayBody(hdr *arrayHeader, hdrDepth, level int) (*Value, *DecodeError) {
	if level > p.opts.MaxDepth {
		return nil, decodeErrf(ErrDepthLimit, hdr.line, "nesting exceeds maximum depth %d", p.opts.MaxDepth)
	}
	if hdr.columns != nil {
		return p.parseTabularRows(hdr, hdrDepth+1)
	}
	return p.parseListElements(hdr, hdrDepth+1, level)
}

// parseTabularRows consumes exactly the declared number of rows and
// rebuilds one object per row, preserving the header's field order.
func (p *parser) parseTabularRows(hdr *arrayHeader, depth int) (*Value, *DecodeError) {
	seen := map[string]struct{}{}
	for _, col := range hdr.columns {
		if _, dup := seen[col]; dup {
			return nil, decodeErrf(ErrStructuralCount, hdr.line, "duplicate column %q", col)
		}
		seen[col] = struct{}{}
	}

	elems := make([]*Value, 0, hdr.count)
	for i := 0; i < hdr.count; i++ {
		ln := p.peek()
		if ln == nil || ln.depth < depth {
			return nil, decodeErrf(ErrStructuralCount, p.lastLineNum(),
				"table declares %d rows but has %d", hdr.count, i)
		}
		if ln.depth > depth {
			return nil, decodeErrf(ErrIndentation, ln.num, "unexpected indent in table")
		}

		cells, derr := p.parseCells(ln)
		if derr != nil {
			return nil, derr
		}
		if len(cells) != len(hdr.columns) {
			return nil, decodeErrf(ErrStructuralCount, ln.num,
				"row has %d cells but header declares %d columns", len(cells), len(hdr.columns))
		}

		fields := make([]Field, len(cells))
		for j, cell := range cells {
			fields[j] = Field{Key: hdr.columns[j], Value: cell}
		}
		elems = append(elems, Object(fields...))
		p.pos++
	}
	return Array(elems...), nil
}

// parseCells splits a row on the delimiter, honoring quoted cells, and
// classifies each cell through the literal grammar.
func (p *parser) parseCells(ln *srcLine) ([]*Value, *DecodeError) {
	var cells []*Value
	s := ln.text
	for {
		var cell *Value
		if len(s) > 0 && s[0] == '"' {
			content, rest, derr := unquoteString(s, ln.num)
			if derr != nil {
				return nil, derr
			}
			cell = Str(content)
			s = rest
		} else {
			idx := strings.IndexByte(s, p.opts.Delimiter)
			if idx < 0 {
				idx = len(s)
			}
			var derr *DecodeError
			cell, derr = classifyBare(s[:idx], ln.num)
			if derr != nil {
				return nil, derr
			}
			s = s[idx:]
		}
		cells = append(cells, cell)

		if len(s) == 0 {
			return cells, nil
		}
		if s[0] != p.opts.Delimiter {
			return nil, decodeErrf(ErrLiteral, ln.num, "unexpected text after quoted cell: %q", s)
		}
		s = s[1:]
	}
}

// parseListElements consumes exactly the declared number of dash-marked
// element blocks, each parsed recursively as a generic value.
func (p *parser) parseListElements(hdr *arrayHeader, depth, level int) (*Value, *DecodeError) {
	elems := make([]*Value, 0, hdr.count)
	for i := 0; i < hdr.count; i++ {
		ln := p.peek()
		if ln == nil || ln.depth < depth {
			return nil, decodeErrf(ErrStructuralCount, p.lastLineNum(),
				"array declares %d elements but has %d", hdr.count, i)
		}
		if ln.depth > depth {
			return nil, decodeErrf(ErrIndentation, ln.num, "unexpected indent in array")
		}

		var elem *Value
		var derr *DecodeError
		switch {
		case ln.text == "-":
			// Object element: fields, if any, are one level deeper.
			p.pos++
			elem, derr = p.parseObject(depth+1, level+1)

		case strings.HasPrefix(ln.text, "- "):
			rest := ln.text[2:]
			if rest != "" && rest[0] == '[' {
				var hdr2 *arrayHeader
				hdr2, derr = p.parseArrayHeader(rest, ln.num)
				if derr == nil {
					p.pos++
					elem, derr = p.parseArrayBody(hdr2, depth, level+1)
				}
			} else {
				p.pos++
				elem, derr = parseScalar(rest, ln.num)
			}

		default:
			derr = decodeErrf(ErrLiteral, ln.num, "expected '-' element marker")
		}
		if derr != nil {
			return nil, derr
		}
		elems = append(elems, elem)
	}
	return Array(elems...), nil
}

func (p *parser) lineNumHere() int {
	if ln := p.peek(); ln != nil {
		return ln.num
	}
	return p.lastLineNum()
}
