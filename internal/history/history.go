// Package history records edits as coalesced actions and replays them for
// undo and redo.
package history

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/ropedit/internal/logger"
)

type Kind int

const (
	KindNone Kind = iota
	KindInsert
	KindDelete
	KindMoveCursor
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindMoveCursor:
		return "move"
	}
	return "none"
}

// Action is one undo unit. Position is the byte offset where the action
// starts; for cursor moves Target is where the cursor went.
type Action struct {
	Kind     Kind
	Position int
	Target   int
	Text     string
	Started  bool
	Done     bool
}

// End returns the offset just past the action's text.
func (a Action) End() int { return a.Position + len(a.Text) }

// Editable is the part of a document the log replays onto.
type Editable interface {
	Insert(offset int, text string) error
	Remove(start, end int) (string, error)
}

// Log holds the undo and redo stacks plus the action being accumulated.
type Log struct {
	undo    []Action
	redo    []Action
	current Action
	policy  Policy
	limit   int
}

type Option func(*Log)

// WithPolicy sets the insertion coalescing policy.
func WithPolicy(p Policy) Option {
	return func(l *Log) {
		if p != nil {
			l.policy = p
		}
	}
}

// WithLimit caps the undo stack; the oldest entries are dropped first. Zero
// means no limit.
func WithLimit(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.limit = n
		}
	}
}

func New(opts ...Option) *Log {
	l := &Log{policy: WordPolicy}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) UndoDepth() int { return len(l.undo) }
func (l *Log) RedoDepth() int { return len(l.redo) }

func (l *Log) CanUndo() bool { return len(l.undo) > 0 || l.current.Started }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Clear drops all history.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
	l.current = Action{}
}

// RecordInsert notes that text was inserted at pos.
func (l *Log) RecordInsert(pos int, text string) {
	if text == "" {
		return
	}
	c := &l.current
	if c.Started && c.Kind == KindInsert && pos == c.End() && !l.policy(c.Text, text) {
		c.Text += text
		return
	}
	l.Commit()
	l.start(Action{Kind: KindInsert, Position: pos, Text: text})
}

// RecordDelete notes that text was removed from pos. Backspace runs grow the
// action to the left and forward deletes grow it to the right, so Text always
// holds the removed characters in document order.
func (l *Log) RecordDelete(pos int, text string) {
	if text == "" {
		return
	}
	c := &l.current
	if c.Started && c.Kind == KindDelete {
		switch {
		case pos+len(text) == c.Position:
			c.Text = text + c.Text
			c.Position = pos
			return
		case pos == c.Position:
			c.Text += text
			return
		}
	}
	l.Commit()
	l.start(Action{Kind: KindDelete, Position: pos, Text: text})
}

// RecordMove records an explicit cursor jump as its own committed action.
func (l *Log) RecordMove(from, to int) {
	if from == to {
		return
	}
	l.Commit()
	l.start(Action{Kind: KindMoveCursor, Position: from, Target: to})
	l.Commit()
}

func (l *Log) start(a Action) {
	a.Started = true
	l.current = a
}

// Commit closes the open action and pushes it onto the undo stack. The redo
// stack is discarded.
func (l *Log) Commit() {
	if !l.current.Started {
		return
	}
	a := l.current
	a.Done = true
	l.current = Action{}
	l.undo = append(l.undo, a)
	l.redo = nil
	if l.limit > 0 && len(l.undo) > l.limit {
		l.undo = append([]Action(nil), l.undo[len(l.undo)-l.limit:]...)
	}
	logger.Debug("history commit", "kind", a.Kind.String(), "pos", a.Position, "len", len(a.Text), "depth", len(l.undo))
}

// Undo reverts the most recent action on doc and returns the new cursor
// offset. ok is false when there is nothing to undo.
func (l *Log) Undo(doc Editable) (pos int, ok bool, err error) {
	l.Commit()
	if len(l.undo) == 0 {
		return 0, false, nil
	}
	a := l.undo[len(l.undo)-1]
	switch a.Kind {
	case KindInsert:
		if _, err := doc.Remove(a.Position, a.End()); err != nil {
			return 0, false, fmt.Errorf("undo insert: %w", err)
		}
		pos = a.Position
	case KindDelete:
		if err := doc.Insert(a.Position, a.Text); err != nil {
			return 0, false, fmt.Errorf("undo delete: %w", err)
		}
		pos = a.End()
	case KindMoveCursor:
		pos = a.Position
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, a)
	logger.Debug("history undo", "kind", a.Kind.String(), "pos", pos)
	return pos, true, nil
}

// Redo re-applies the most recently undone action. An open action is
// committed first, which discards the redo stack.
func (l *Log) Redo(doc Editable) (pos int, ok bool, err error) {
	l.Commit()
	if len(l.redo) == 0 {
		return 0, false, nil
	}
	a := l.redo[len(l.redo)-1]
	switch a.Kind {
	case KindInsert:
		if err := doc.Insert(a.Position, a.Text); err != nil {
			return 0, false, fmt.Errorf("redo insert: %w", err)
		}
		pos = a.End()
	case KindDelete:
		if _, err := doc.Remove(a.Position, a.End()); err != nil {
			return 0, false, fmt.Errorf("redo delete: %w", err)
		}
		pos = a.Position
	case KindMoveCursor:
		pos = a.Target
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, a)
	logger.Debug("history redo", "kind", a.Kind.String(), "pos", pos)
	return pos, true, nil
}

// Policy decides whether next starts a new insert action after accumulated.
type Policy func(accumulated, next string) bool

// WordPolicy breaks when whitespace follows a non-whitespace character, so
// each word and its leading space form one undo step.
func WordPolicy(accumulated, next string) bool {
	first, _ := utf8.DecodeRuneInString(next)
	last, _ := utf8.DecodeLastRuneInString(accumulated)
	return unicode.IsSpace(first) && !unicode.IsSpace(last)
}

// CharPolicy makes every insertion its own action.
func CharPolicy(string, string) bool { return true }

// RunPolicy never breaks a contiguous insert run.
func RunPolicy(string, string) bool { return false }

// ParsePolicy maps a config value to a policy; unknown names fall back to
// WordPolicy.
func ParsePolicy(name string) Policy {
	switch name {
	case "char":
		return CharPolicy
	case "run":
		return RunPolicy
	}
	return WordPolicy
}
