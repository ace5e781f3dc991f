package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kobzarvs/ropedit/internal/document"
)

func TestLineDownClampsOnShorterLine(t *testing.T) {
	d := document.New("hello\nhi\n")
	assert.Equal(t, 7, Down(d, 4))
}

func TestLineUpDown(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
		pos  int
		want int
	}{
		{"up on first line goes to start", "abc\ndef", LineUp, 2, 0},
		{"down on last line goes to end", "abc\ndef", LineDown, 5, 7},
		{"down keeps column", "abc\ndef", LineDown, 1, 5},
		{"up keeps column", "abc\ndef", LineUp, 6, 2},
		{"down into empty line", "abc\n\nxyz", LineDown, 2, 4},
		{"up into empty line", "abc\n\nxyz", LineUp, 7, 4},
		{"up clamps to last char", "ab\nlonger", LineUp, 8, 1},
		{"down into final line without newline", "abcdef\nxy", LineDown, 5, 8},
		{"down from line before trailing empty line", "a\nb\n", LineDown, 2, 4},
		{"multibyte column", "añb\nxyz", LineDown, 3, 7},
		{"empty document up", "", LineUp, 0, 0},
		{"empty document down", "", LineDown, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.New(tt.text)
			assert.Equal(t, tt.want, Apply(tt.kind, d, tt.pos, 10))
		})
	}
}

func TestCharMotions(t *testing.T) {
	d := document.New("añ")
	assert.Equal(t, 0, Apply(CharLeft, d, 0, 1))
	assert.Equal(t, 1, Apply(CharRight, d, 0, 1))
	assert.Equal(t, 3, Apply(CharRight, d, 1, 1))
	assert.Equal(t, 3, Apply(CharRight, d, 3, 1))
	assert.Equal(t, 1, Apply(CharLeft, d, 3, 1))
}

func TestWordMotions(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
		pos  int
		want int
	}{
		{"right over word", "foo bar", WordRight, 0, 3},
		{"right skips space then word", "foo bar", WordRight, 3, 7},
		{"right stops after punctuation run", "a.b", WordRight, 1, 2},
		{"right punctuation does not eat word", "  ->foo", WordRight, 0, 4},
		{"right over unicode word", "héllo wörld", WordRight, 0, 6},
		{"left over word", "foo bar", WordLeft, 7, 4},
		{"left skips space then word", "foo bar", WordLeft, 4, 0},
		{"left over punctuation run", "foo::bar", WordLeft, 5, 3},
		{"left stops at punctuation", "foo.bar", WordLeft, 7, 4},
		{"right at end is a no-op", "foo", WordRight, 3, 3},
		{"left at start is a no-op", "foo", WordLeft, 0, 0},
		{"newline counts as whitespace", "foo\n  bar", WordRight, 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.New(tt.text)
			assert.Equal(t, tt.want, Apply(tt.kind, d, tt.pos, 10))
		})
	}
}

func TestHomeEndAndLineBounds(t *testing.T) {
	d := document.New("one\ntwo\nthree")
	assert.Equal(t, 0, Apply(Home, d, 6, 10))
	assert.Equal(t, d.Len(), Apply(End, d, 6, 10))
	assert.Equal(t, 4, Apply(LineStart, d, 6, 10))
	assert.Equal(t, 7, Apply(LineEnd, d, 5, 10))
	assert.Equal(t, d.Len(), Apply(LineEnd, d, 9, 10))
}

func TestPageMotions(t *testing.T) {
	d := document.New("0\n1\n2\n3\n4\n5\n6\n7\n8\n9")
	// height 4 moves three lines
	assert.Equal(t, 6, Apply(PageDown, d, 0, 4))
	assert.Equal(t, 0, Apply(PageUp, d, 6, 4))
	assert.Equal(t, 0, Apply(PageUp, d, 2, 4))
	assert.Equal(t, d.Len(), Apply(PageDown, d, 16, 4))
	// height 1 still moves
	assert.Equal(t, 2, Apply(PageDown, d, 0, 1))
}

func TestOutOfRangeIntentClamps(t *testing.T) {
	d := document.New("abc")
	assert.Equal(t, 3, Apply(CharRight, d, 99, 1))
	assert.Equal(t, 0, Apply(CharLeft, d, -5, 1))
}

func TestMotionsStayOnBoundaries(t *testing.T) {
	kinds := []Kind{CharLeft, CharRight, WordLeft, WordRight, LineUp, LineDown, PageUp, PageDown, Home, End, LineStart, LineEnd}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z日 .,\n]{0,60}`).Draw(t, "text")
		d := document.New(text)
		pos := 0
		for i := 0; i < 30; i++ {
			k := rapid.SampledFrom(kinds).Draw(t, "kind")
			pos = Apply(k, d, pos, rapid.IntRange(1, 8).Draw(t, "height"))
			if pos < 0 || pos > d.Len() || !d.IsBoundary(pos) {
				t.Fatalf("%v produced invalid offset %d in %q", k, pos, text)
			}
		}
	})
}
