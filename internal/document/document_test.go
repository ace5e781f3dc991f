package document

import (
	"errors"
	"strings"
	"testing"
)

func TestEmptyDocumentHasOneLine(t *testing.T) {
	d := New("")
	if got := d.LineCount(); got != 1 {
		t.Fatalf("LineCount = %d, want 1", got)
	}
	if got := d.LineLenChars(0); got != 0 {
		t.Fatalf("LineLenChars(0) = %d, want 0", got)
	}
	if got := d.ByteToLine(0); got != 0 {
		t.Fatalf("ByteToLine(0) = %d, want 0", got)
	}
	if got := d.LineToByte(0); got != 0 {
		t.Fatalf("LineToByte(0) = %d, want 0", got)
	}
}

func TestLineQueries(t *testing.T) {
	d := New("hello\nhi\n")
	if got := d.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}
	tests := []struct {
		line     int
		start    int
		lenChars int
		text     string
		lineEnd  int
	}{
		{0, 0, 6, "hello", 5},
		{1, 6, 3, "hi", 8},
		{2, 9, 0, "", 9},
	}
	for _, tt := range tests {
		if got := d.LineToByte(tt.line); got != tt.start {
			t.Fatalf("LineToByte(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := d.LineLenChars(tt.line); got != tt.lenChars {
			t.Fatalf("LineLenChars(%d) = %d, want %d", tt.line, got, tt.lenChars)
		}
		if got := d.LineText(tt.line); got != tt.text {
			t.Fatalf("LineText(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got := d.LineEnd(tt.line); got != tt.lineEnd {
			t.Fatalf("LineEnd(%d) = %d, want %d", tt.line, got, tt.lineEnd)
		}
	}
	for offset, want := range []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 2} {
		if got := d.ByteToLine(offset); got != want {
			t.Fatalf("ByteToLine(%d) = %d, want %d", offset, got, want)
		}
	}
}

func TestFinalLineWithoutNewline(t *testing.T) {
	d := New("a\nbc")
	if got := d.LineLenChars(1); got != 2 {
		t.Fatalf("LineLenChars(1) = %d, want 2", got)
	}
	if got := d.LineLenChars(0); got != 2 {
		t.Fatalf("LineLenChars(0) = %d, want 2", got)
	}
}

func TestMultibyte(t *testing.T) {
	d := New("añb\n日本")
	if got := d.Len(); got != len("añb\n日本") {
		t.Fatalf("Len = %d", got)
	}
	if got := d.LenChars(); got != 6 {
		t.Fatalf("LenChars = %d, want 6", got)
	}
	if got := d.RuneAt(1); got != 'ñ' {
		t.Fatalf("RuneAt(1) = %q, want ñ", got)
	}
	if d.IsBoundary(2) {
		t.Fatalf("IsBoundary(2) = true inside ñ")
	}
	if got := d.NextBoundary(1); got != 3 {
		t.Fatalf("NextBoundary(1) = %d, want 3", got)
	}
	if got := d.PrevBoundary(3); got != 1 {
		t.Fatalf("PrevBoundary(3) = %d, want 1", got)
	}
	if got := d.LineLenChars(1); got != 2 {
		t.Fatalf("LineLenChars(1) = %d, want 2", got)
	}
	if got := d.ByteToChar(d.Len()); got != 6 {
		t.Fatalf("ByteToChar(len) = %d, want 6", got)
	}
	if got := d.CharToByte(5); got != len("añb\n日") {
		t.Fatalf("CharToByte(5) = %d", got)
	}
}

func TestInsertRemove(t *testing.T) {
	d := New("hello world")
	if err := d.Insert(5, ","); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got := d.Text(); got != "hello, world" {
		t.Fatalf("Text = %q", got)
	}
	removed, err := d.Remove(5, 7)
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if removed != ", " {
		t.Fatalf("removed = %q, want %q", removed, ", ")
	}
	if got := d.Text(); got != "helloworld" {
		t.Fatalf("Text = %q", got)
	}
}

func TestInsertErrors(t *testing.T) {
	d := New("ñ")
	if err := d.Insert(5, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Insert past end err = %v, want ErrOutOfBounds", err)
	}
	if err := d.Insert(1, "x"); !errors.Is(err, ErrNotBoundary) {
		t.Fatalf("Insert mid-rune err = %v, want ErrNotBoundary", err)
	}
	if err := d.Insert(0, "\xff"); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("Insert invalid err = %v, want ErrInvalidText", err)
	}
	if _, err := d.Remove(1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Remove reversed err = %v, want ErrOutOfBounds", err)
	}
	if got := d.Text(); got != "ñ" {
		t.Fatalf("document changed after failed edits: %q", got)
	}
}

func TestQueryPanicsOutOfRange(t *testing.T) {
	d := New("abc")
	defer func() {
		r := recover()
		be, ok := r.(*BoundsError)
		if !ok {
			t.Fatalf("recover() = %#v, want *BoundsError", r)
		}
		if !errors.Is(be, ErrOutOfBounds) {
			t.Fatalf("BoundsError does not unwrap to ErrOutOfBounds")
		}
	}()
	d.ByteToLine(4)
}

func TestRuneAtEndPanics(t *testing.T) {
	d := New("abc")
	defer func() {
		if recover() == nil {
			t.Fatalf("RuneAt(len) did not panic")
		}
	}()
	d.RuneAt(3)
}

func TestNewNormalizes(t *testing.T) {
	d := New("a\r\nb\xff")
	if got := d.Text(); got != "a\nb�" {
		t.Fatalf("Text = %q", got)
	}
}

func TestSetTextAndRevision(t *testing.T) {
	d := New("one")
	rev := d.Revision()
	d.SetText("two\nthree")
	if d.Revision() == rev {
		t.Fatalf("Revision unchanged after SetText")
	}
	if got := d.LineCount(); got != 2 {
		t.Fatalf("LineCount = %d, want 2", got)
	}
	edit, ok := d.ConsumeEdit()
	if !ok {
		t.Fatalf("ConsumeEdit ok = false")
	}
	if edit.OldEndByte != 3 || edit.NewEndByte != 9 {
		t.Fatalf("edit = %+v", edit)
	}
}

func TestConsumeEdit(t *testing.T) {
	d := New("ab\ncd")
	if _, ok := d.ConsumeEdit(); ok {
		t.Fatalf("ConsumeEdit on fresh document ok = true")
	}
	if err := d.Insert(4, "x\ny"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	edit, ok := d.ConsumeEdit()
	if !ok {
		t.Fatalf("ConsumeEdit ok = false")
	}
	want := Edit{
		StartByte:   4,
		OldEndByte:  4,
		NewEndByte:  7,
		StartPoint:  Point{Row: 1, Column: 1},
		OldEndPoint: Point{Row: 1, Column: 1},
		NewEndPoint: Point{Row: 2, Column: 1},
	}
	if edit != want {
		t.Fatalf("edit = %+v, want %+v", edit, want)
	}

	if _, err := d.Remove(0, 1); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := d.Insert(0, "z"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if _, ok := d.ConsumeEdit(); ok {
		t.Fatalf("ConsumeEdit after two edits ok = true, want full reparse")
	}
}

func TestLargeDocumentLineIndex(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("line with some text\n")
	}
	d := New(b.String())
	if got := d.LineCount(); got != 5001 {
		t.Fatalf("LineCount = %d, want 5001", got)
	}
	if got := d.LineToByte(4321); got != 4321*20 {
		t.Fatalf("LineToByte(4321) = %d, want %d", got, 4321*20)
	}
	if got := d.ByteToLine(4321*20 + 3); got != 4321 {
		t.Fatalf("ByteToLine = %d, want 4321", got)
	}
	if err := d.Insert(20, "new\n"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got := d.LineText(1); got != "new" {
		t.Fatalf("LineText(1) = %q, want %q", got, "new")
	}
}

func TestIndex(t *testing.T) {
	d := New("foo bar foo")
	if got := d.Index("foo", 1); got != 8 {
		t.Fatalf("Index = %d, want 8", got)
	}
	if got := d.Index("baz", 0); got != -1 {
		t.Fatalf("Index = %d, want -1", got)
	}
}
