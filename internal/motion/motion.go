// Package motion computes new cursor offsets from the current offset and the
// document content. Motions never fail: intents that run past the document
// clamp to its start or end.
package motion

import "unicode"

// Text is the read-only view of a document the motions need.
type Text interface {
	Len() int
	LineCount() int
	LineToByte(line int) int
	ByteToLine(offset int) int
	ByteToChar(offset int) int
	CharToByte(c int) int
	LineLenChars(line int) int
	RuneAt(offset int) rune
	NextBoundary(offset int) int
	PrevBoundary(offset int) int
	LineEnd(line int) int
}

type Kind int

const (
	CharLeft Kind = iota
	CharRight
	WordLeft
	WordRight
	LineUp
	LineDown
	PageUp
	PageDown
	Home
	End
	LineStart
	LineEnd
)

var kindNames = map[Kind]string{
	CharLeft:  "char_left",
	CharRight: "char_right",
	WordLeft:  "word_left",
	WordRight: "word_right",
	LineUp:    "line_up",
	LineDown:  "line_down",
	PageUp:    "page_up",
	PageDown:  "page_down",
	Home:      "file_start",
	End:       "file_end",
	LineStart: "line_start",
	LineEnd:   "line_end",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Apply runs motion k from pos. pageHeight is the viewport height used by
// page motions.
func Apply(k Kind, t Text, pos, pageHeight int) int {
	pos = clamp(t, pos)
	switch k {
	case CharLeft:
		return Left(t, pos)
	case CharRight:
		return Right(t, pos)
	case WordLeft:
		return WordBackward(t, pos)
	case WordRight:
		return WordForward(t, pos)
	case LineUp:
		return Up(t, pos)
	case LineDown:
		return Down(t, pos)
	case PageUp:
		return PageBackward(t, pos, pageHeight)
	case PageDown:
		return PageForward(t, pos, pageHeight)
	case Home:
		return 0
	case End:
		return t.Len()
	case LineStart:
		return t.LineToByte(t.ByteToLine(pos))
	case LineEnd:
		return t.LineEnd(t.ByteToLine(pos))
	}
	return pos
}

func clamp(t Text, pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > t.Len() {
		return t.Len()
	}
	return pos
}

// Left moves one character back.
func Left(t Text, pos int) int {
	if pos <= 0 {
		return 0
	}
	return t.PrevBoundary(pos)
}

// Right moves one character forward.
func Right(t Text, pos int) int {
	if pos >= t.Len() {
		return t.Len()
	}
	return t.NextBoundary(pos)
}

func isPunct(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// WordForward skips whitespace, then either a run of ASCII punctuation or a
// run of alphanumerics, never both.
func WordForward(t Text, pos int) int {
	n := t.Len()
	for pos < n && unicode.IsSpace(t.RuneAt(pos)) {
		pos = t.NextBoundary(pos)
	}
	hasPunct := false
	for pos < n && isPunct(t.RuneAt(pos)) {
		pos = t.NextBoundary(pos)
		hasPunct = true
	}
	if !hasPunct {
		for pos < n && isWord(t.RuneAt(pos)) {
			pos = t.NextBoundary(pos)
		}
	}
	return pos
}

// WordBackward mirrors WordForward, scanning the runes before pos.
func WordBackward(t Text, pos int) int {
	before := func(p int) rune { return t.RuneAt(t.PrevBoundary(p)) }
	for pos > 0 && unicode.IsSpace(before(pos)) {
		pos = t.PrevBoundary(pos)
	}
	hasPunct := false
	for pos > 0 && isPunct(before(pos)) {
		pos = t.PrevBoundary(pos)
		hasPunct = true
	}
	if !hasPunct {
		for pos > 0 && isWord(before(pos)) {
			pos = t.PrevBoundary(pos)
		}
	}
	return pos
}

// Up moves to the previous line keeping the character column where the line
// allows it. On the first line it goes to the document start.
func Up(t Text, pos int) int {
	line := t.ByteToLine(pos)
	if line == 0 {
		return 0
	}
	return onLine(t, line-1, column(t, pos, line))
}

// Down moves to the next line keeping the character column where the line
// allows it. On the last line it goes to the document end.
func Down(t Text, pos int) int {
	line := t.ByteToLine(pos)
	if line >= t.LineCount()-1 {
		return t.Len()
	}
	return onLine(t, line+1, column(t, pos, line))
}

func column(t Text, pos, line int) int {
	return t.ByteToChar(pos) - t.ByteToChar(t.LineToByte(line))
}

// onLine places the cursor at col on target, clamped to the last visible
// character. Lines with no visible characters put the cursor at their start.
func onLine(t Text, target, col int) int {
	start := t.LineToByte(target)
	visible := t.LineLenChars(target)
	if target < t.LineCount()-1 {
		visible-- // trailing newline
	}
	if visible <= 0 {
		return start
	}
	if col >= visible {
		col = visible - 1
	}
	return t.CharToByte(t.ByteToChar(start) + col)
}

func pageSteps(height int) int {
	return max(height-1, 1)
}

// PageBackward repeats Up height-1 times.
func PageBackward(t Text, pos, height int) int {
	for i := 0; i < pageSteps(height); i++ {
		pos = Up(t, pos)
	}
	return pos
}

// PageForward repeats Down height-1 times.
func PageForward(t Text, pos, height int) int {
	for i := 0; i < pageSteps(height); i++ {
		pos = Down(t, pos)
	}
	return pos
}
