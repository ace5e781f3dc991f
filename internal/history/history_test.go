package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kobzarvs/ropedit/internal/document"
)

// typeText inserts s one rune at a time the way a keyboard would.
func typeText(t require.TestingT, d *document.Document, l *Log, pos int, s string) int {
	for _, r := range s {
		text := string(r)
		require.NoError(t, d.Insert(pos, text))
		l.RecordInsert(pos, text)
		pos += len(text)
	}
	return pos
}

// backspace deletes n runes before pos.
func backspace(t require.TestingT, d *document.Document, l *Log, pos, n int) int {
	for i := 0; i < n; i++ {
		start := d.PrevBoundary(pos)
		removed, err := d.Remove(start, pos)
		require.NoError(t, err)
		l.RecordDelete(start, removed)
		pos = start
	}
	return pos
}

func TestCoalescingSplitsAtSpace(t *testing.T) {
	d := document.New("")
	l := New()
	typeText(t, d, l, 0, "ab cd")
	l.Commit()

	require.Equal(t, 2, l.UndoDepth())
	actions := l.undo
	assert.Equal(t, "ab", actions[0].Text)
	assert.Equal(t, " cd", actions[1].Text)
	assert.True(t, actions[0].Done)
}

func TestCoalescingPolicies(t *testing.T) {
	tests := []struct {
		policy Policy
		want   int
	}{
		{WordPolicy, 2},
		{CharPolicy, 5},
		{RunPolicy, 1},
		{ParsePolicy("bogus"), 2},
	}
	for _, tt := range tests {
		d := document.New("")
		l := New(WithPolicy(tt.policy))
		typeText(t, d, l, 0, "ab cd")
		l.Commit()
		assert.Equal(t, tt.want, l.UndoDepth())
	}
}

func TestInsertUndoRestoresCursorBeforeText(t *testing.T) {
	d := document.New("hello")
	l := New()
	typeText(t, d, l, 5, "!!")

	pos, ok, err := l.Undo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, pos)
	assert.Equal(t, "hello", d.Text())

	pos, ok, err = l.Redo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, pos)
	assert.Equal(t, "hello!!", d.Text())
}

func TestBackspaceUndoRestoresDocumentOrder(t *testing.T) {
	d := document.New("say hello")
	l := New()
	backspace(t, d, l, d.Len(), 5)
	require.Equal(t, "say ", d.Text())
	require.Equal(t, 1, l.UndoDepth()+boolInt(l.current.Started))

	pos, ok, err := l.Undo(d)
	require.NoError(t, err)
	require.True(t, ok)
	// Not reversed: the text comes back as "hello", not "olleh".
	assert.Equal(t, "say hello", d.Text())
	assert.Equal(t, 9, pos)
}

func TestForwardDeleteCoalesces(t *testing.T) {
	d := document.New("abcdef")
	l := New()
	for i := 0; i < 3; i++ {
		removed, err := d.Remove(1, 2)
		require.NoError(t, err)
		l.RecordDelete(1, removed)
	}
	require.Equal(t, "aef", d.Text())
	l.Commit()
	require.Equal(t, 1, l.UndoDepth())
	assert.Equal(t, "bcd", l.undo[0].Text)

	pos, ok, err := l.Undo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abcdef", d.Text())
	assert.Equal(t, 4, pos)

	pos, ok, err = l.Redo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aef", d.Text())
	assert.Equal(t, 1, pos)
}

func TestKindChangeCommits(t *testing.T) {
	d := document.New("")
	l := New()
	pos := typeText(t, d, l, 0, "abc")
	backspace(t, d, l, pos, 1)

	require.True(t, l.current.Started)
	assert.Equal(t, KindDelete, l.current.Kind)
	assert.Equal(t, 1, l.UndoDepth())
}

func TestNonContiguousInsertStartsNewAction(t *testing.T) {
	d := document.New("xy")
	l := New()
	typeText(t, d, l, 0, "a")
	typeText(t, d, l, 3, "b")
	l.Commit()
	assert.Equal(t, 2, l.UndoDepth())
}

func TestUndoOnEmptyStackIsNoChange(t *testing.T) {
	d := document.New("abc")
	l := New()
	_, ok, err := l.Undo(d)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = l.Redo(d)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "abc", d.Text())
}

func TestNewEditClearsRedo(t *testing.T) {
	d := document.New("")
	l := New()
	typeText(t, d, l, 0, "ab")
	_, ok, err := l.Undo(d)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, l.CanRedo())

	typeText(t, d, l, 0, "x")
	_, ok, err = l.Redo(d)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "x", d.Text())
	assert.False(t, l.CanRedo())
}

func TestRecordMove(t *testing.T) {
	d := document.New("abc\ndef")
	l := New()
	l.RecordMove(0, 5)
	l.RecordMove(3, 3)
	require.Equal(t, 1, l.UndoDepth())

	pos, ok, err := l.Undo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok, err = l.Redo(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, pos)
	assert.Equal(t, "abc\ndef", d.Text())
}

func TestLimitDropsOldest(t *testing.T) {
	d := document.New("")
	l := New(WithLimit(2), WithPolicy(CharPolicy))
	typeText(t, d, l, 0, "abc")
	l.Commit()
	require.Equal(t, 2, l.UndoDepth())
	assert.Equal(t, "b", l.undo[0].Text)
}

func TestClear(t *testing.T) {
	d := document.New("")
	l := New()
	typeText(t, d, l, 0, "ab")
	l.Clear()
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

func TestInsertUndoRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orig := rapid.StringMatching(`[a-z \nü]{0,30}`).Draw(t, "doc")
		d := document.New(orig)
		runes := []rune(orig)
		at := len(string(runes[:rapid.IntRange(0, len(runes)).Draw(t, "at")]))
		s := rapid.StringMatching(`[a-zA-Z0-9 ]{1,20}`).Draw(t, "s")

		l := New()
		typeText(t, d, l, at, s)
		for l.CanUndo() {
			pos, ok, err := l.Undo(d)
			if err != nil || !ok {
				t.Fatalf("Undo = %d, %v, %v", pos, ok, err)
			}
			if !l.CanUndo() && pos != at {
				t.Fatalf("cursor = %d, want %d", pos, at)
			}
		}
		if got := d.Text(); got != orig {
			t.Fatalf("after undo = %q, want %q", got, orig)
		}
	})
}

func TestDeleteUndoRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orig := rapid.StringMatching(`[a-z \nü]{1,30}`).Draw(t, "doc")
		d := document.New(orig)
		runes := []rune(orig)
		a := rapid.IntRange(0, len(runes)).Draw(t, "a")
		b := rapid.IntRange(a, len(runes)).Draw(t, "b")
		start, end := len(string(runes[:a])), len(string(runes[:b]))

		l := New()
		if rapid.Bool().Draw(t, "backspace") {
			backspace(t, d, l, end, b-a)
		} else {
			for i := a; i < b; i++ {
				removed, err := d.Remove(start, d.NextBoundary(start))
				if err != nil {
					t.Fatalf("Remove error: %v", err)
				}
				l.RecordDelete(start, removed)
			}
		}
		if b > a && l.UndoDepth()+boolInt(l.current.Started) != 1 {
			t.Fatalf("delete run split into several actions")
		}
		for l.CanUndo() {
			if _, _, err := l.Undo(d); err != nil {
				t.Fatalf("Undo error: %v", err)
			}
		}
		if got := d.Text(); got != orig {
			t.Fatalf("after undo = %q, want %q", got, orig)
		}
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
