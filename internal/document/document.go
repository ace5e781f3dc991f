// Package document holds the rope-backed text storage shared by every
// editable view. Offsets are byte offsets into UTF-8 text and must fall on
// rune boundaries.
package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrOutOfBounds = errors.New("document: offset out of bounds")
	ErrNotBoundary = errors.New("document: offset not on a character boundary")
	ErrInvalidText = errors.New("document: text is not valid UTF-8")
)

// BoundsError is the panic value raised by queries that receive an offset or
// line outside the document. Callers are expected to pass valid positions.
type BoundsError struct {
	Op    string
	Index int
	Limit int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("document: %s: index %d out of range [0, %d]", e.Op, e.Index, e.Limit)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

// Document is a mutable text buffer. The zero value is an empty document.
type Document struct {
	root     *node
	revision uint64
	edit     Edit
	pending  int
}

// New returns a document holding text. CRLF line endings become LF and
// invalid UTF-8 is replaced with U+FFFD.
func New(text string) *Document {
	d := &Document{}
	d.root = build(normalize(text))
	return d
}

func normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Len returns the length in bytes.
func (d *Document) Len() int { return size(d.root) }

// LenChars returns the length in runes.
func (d *Document) LenChars() int {
	if d.root == nil {
		return 0
	}
	return d.root.chars
}

// LineCount is the number of newlines plus one; an empty document has one
// empty line.
func (d *Document) LineCount() int {
	if d.root == nil {
		return 1
	}
	return d.root.lines + 1
}

// Revision increases on every mutation.
func (d *Document) Revision() uint64 { return d.revision }

// Text returns the full content.
func (d *Document) Text() string {
	return d.Slice(0, d.Len())
}

func (d *Document) String() string { return d.Text() }

// SetText replaces the whole content.
func (d *Document) SetText(text string) {
	old := d.Len()
	oldEnd := d.pointAt(old)
	d.root = build(normalize(text))
	d.record(Edit{
		StartByte:   0,
		OldEndByte:  old,
		NewEndByte:  d.Len(),
		OldEndPoint: oldEnd,
		NewEndPoint: d.pointAt(d.Len()),
	})
}

// IsBoundary reports whether offset is a valid cursor position.
func (d *Document) IsBoundary(offset int) bool {
	if offset < 0 || offset > d.Len() {
		return false
	}
	if offset == 0 || offset == d.Len() {
		return true
	}
	return utf8.RuneStart(byteAt(d.root, offset))
}

func (d *Document) check(offset int) error {
	if offset < 0 || offset > d.Len() {
		return fmt.Errorf("offset %d (len %d): %w", offset, d.Len(), ErrOutOfBounds)
	}
	if !d.IsBoundary(offset) {
		return fmt.Errorf("offset %d: %w", offset, ErrNotBoundary)
	}
	return nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	if err := d.check(offset); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("insert: %w", ErrInvalidText)
	}
	if text == "" {
		return nil
	}
	start := d.pointAt(offset)
	l, r := split(d.root, offset)
	d.root = join(join(l, build(text)), r)
	d.record(Edit{
		StartByte:   offset,
		OldEndByte:  offset,
		NewEndByte:  offset + len(text),
		StartPoint:  start,
		OldEndPoint: start,
		NewEndPoint: advance(start, text),
	})
	return nil
}

// Remove deletes the half-open range [start, end) and returns the removed
// text.
func (d *Document) Remove(start, end int) (string, error) {
	if start > end {
		return "", fmt.Errorf("remove [%d, %d): %w", start, end, ErrOutOfBounds)
	}
	if err := d.check(start); err != nil {
		return "", fmt.Errorf("remove: %w", err)
	}
	if err := d.check(end); err != nil {
		return "", fmt.Errorf("remove: %w", err)
	}
	if start == end {
		return "", nil
	}
	startPoint := d.pointAt(start)
	endPoint := d.pointAt(end)
	l, rest := split(d.root, start)
	mid, r := split(rest, end-start)
	removed := collect(mid)
	d.root = join(l, r)
	d.record(Edit{
		StartByte:   start,
		OldEndByte:  end,
		NewEndByte:  start,
		StartPoint:  startPoint,
		OldEndPoint: endPoint,
		NewEndPoint: startPoint,
	})
	return removed, nil
}

func collect(n *node) string {
	var b strings.Builder
	b.Grow(size(n))
	walk(n, 0, size(n), func(s string) bool {
		b.WriteString(s)
		return true
	})
	return b.String()
}

func (d *Document) mustOffset(op string, offset int) {
	if offset < 0 || offset > d.Len() {
		panic(&BoundsError{Op: op, Index: offset, Limit: d.Len()})
	}
}

func (d *Document) mustLine(op string, line int) {
	if line < 0 || line >= d.LineCount() {
		panic(&BoundsError{Op: op, Index: line, Limit: d.LineCount() - 1})
	}
}

// Slice returns the text in [start, end).
func (d *Document) Slice(start, end int) string {
	d.mustOffset("slice", start)
	d.mustOffset("slice", end)
	if start >= end {
		return ""
	}
	var b strings.Builder
	b.Grow(end - start)
	walk(d.root, start, end, func(s string) bool {
		b.WriteString(s)
		return true
	})
	return b.String()
}

// LineToByte returns the offset of the first byte of line. Passing
// LineCount() is allowed and yields Len().
func (d *Document) LineToByte(line int) int {
	if line == d.LineCount() {
		return d.Len()
	}
	d.mustLine("line_to_byte", line)
	if line == 0 {
		return 0
	}
	return offsetAfterNewline(d.root, line)
}

// ByteToLine returns the line containing offset. Len() maps to the last line.
func (d *Document) ByteToLine(offset int) int {
	d.mustOffset("byte_to_line", offset)
	return newlinesBefore(d.root, offset)
}

// ByteToChar converts a byte offset to a rune index.
func (d *Document) ByteToChar(offset int) int {
	d.mustOffset("byte_to_char", offset)
	return charsBefore(d.root, offset)
}

// CharToByte converts a rune index to a byte offset.
func (d *Document) CharToByte(c int) int {
	if c < 0 || c > d.LenChars() {
		panic(&BoundsError{Op: "char_to_byte", Index: c, Limit: d.LenChars()})
	}
	return charToByte(d.root, c)
}

// RuneAt returns the rune starting at offset.
func (d *Document) RuneAt(offset int) rune {
	if offset < 0 || offset >= d.Len() {
		panic(&BoundsError{Op: "char_at", Index: offset, Limit: d.Len() - 1})
	}
	leaf, i := leafAt(d.root, offset)
	r, _ := utf8.DecodeRuneInString(leaf.text[i:])
	return r
}

// NextBoundary returns the offset of the rune after the one at offset, or
// Len() at the end.
func (d *Document) NextBoundary(offset int) int {
	d.mustOffset("next_boundary", offset)
	if offset >= d.Len() {
		return d.Len()
	}
	leaf, i := leafAt(d.root, offset)
	_, w := utf8.DecodeRuneInString(leaf.text[i:])
	return offset + w
}

// PrevBoundary returns the offset of the rune before offset, or 0.
func (d *Document) PrevBoundary(offset int) int {
	d.mustOffset("prev_boundary", offset)
	if offset <= 0 {
		return 0
	}
	p := offset - 1
	for p > 0 && !utf8.RuneStart(byteAt(d.root, p)) {
		p--
	}
	return p
}

// Line returns line including its trailing newline.
func (d *Document) Line(line int) string {
	d.mustLine("line", line)
	return d.Slice(d.LineToByte(line), d.LineToByte(line+1))
}

// LineText returns line without its trailing newline.
func (d *Document) LineText(line int) string {
	return strings.TrimSuffix(d.Line(line), "\n")
}

// LineLenChars returns the rune count of line including its trailing newline.
// Only the final line has no newline.
func (d *Document) LineLenChars(line int) int {
	d.mustLine("line_len_chars", line)
	start := d.LineToByte(line)
	end := d.LineToByte(line + 1)
	return charsBefore(d.root, end) - charsBefore(d.root, start)
}

// LineEnd returns the offset just before the newline of line, or Len() for
// the final line.
func (d *Document) LineEnd(line int) int {
	d.mustLine("line_end", line)
	if line == d.LineCount()-1 {
		return d.Len()
	}
	return d.LineToByte(line+1) - 1
}

// Index returns the first offset >= from where substr occurs, or -1.
func (d *Document) Index(substr string, from int) int {
	d.mustOffset("index", from)
	if substr == "" {
		return from
	}
	i := strings.Index(d.Slice(from, d.Len()), substr)
	if i < 0 {
		return -1
	}
	return from + i
}
