package document

import "strings"

// Point is a row and byte column, the coordinate system tree-sitter uses.
type Point struct {
	Row    int
	Column int
}

// Edit describes the most recent mutation for incremental re-parsing.
type Edit struct {
	StartByte   int
	OldEndByte  int
	NewEndByte  int
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

func (d *Document) pointAt(offset int) Point {
	line := newlinesBefore(d.root, offset)
	return Point{Row: line, Column: offset - d.LineToByte(line)}
}

func advance(p Point, text string) Point {
	n := strings.Count(text, "\n")
	if n == 0 {
		return Point{Row: p.Row, Column: p.Column + len(text)}
	}
	return Point{Row: p.Row + n, Column: len(text) - strings.LastIndexByte(text, '\n') - 1}
}

func (d *Document) record(e Edit) {
	d.revision++
	d.edit = e
	d.pending++
}

// ConsumeEdit returns the single edit made since the previous call. It
// reports false when nothing changed or when several edits piled up, in which
// case the consumer should re-parse from scratch.
func (d *Document) ConsumeEdit() (Edit, bool) {
	n := d.pending
	d.pending = 0
	if n != 1 {
		return Edit{}, false
	}
	return d.edit, true
}
