// Package keymap turns terminal input events into editor commands.
package keymap

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/ropedit/internal/config"
	"github.com/kobzarvs/ropedit/internal/editor"
	"github.com/kobzarvs/ropedit/internal/logger"
)

// Map binds key strings to editor actions.
type Map struct {
	bindings map[string]editor.Command
}

// New resolves the configured action names. Unknown actions are logged and
// skipped.
func New(km config.Keymap) *Map {
	m := &Map{bindings: make(map[string]editor.Command, len(km))}
	for key, action := range km {
		cmd, ok := editor.ActionCommand(action)
		if !ok {
			logger.Warn("unknown keymap action", "key", key, "action", action,
				"known", strings.Join(editor.ActionNames(), ","))
			continue
		}
		m.bindings[strings.ToLower(key)] = cmd
	}
	return m
}

// Lookup returns the command for a key event. Printable runes without a
// binding are typed.
func (m *Map) Lookup(ev *tcell.EventKey) (editor.Command, bool) {
	key := KeyString(ev)
	if cmd, ok := m.bindings[key]; ok {
		return cmd, true
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		return editor.InsertChar(ev.Rune()), true
	}
	return editor.Command{}, false
}

// Mouse maps a primary-button press to a click.
func Mouse(ev *tcell.EventMouse) (editor.Command, bool) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return editor.Command{}, false
	}
	x, y := ev.Position()
	return editor.Click(x, y), true
}

// KeyString names a key event the way keymap entries spell it, for example
// "ctrl+z", "alt+left" or "pgdn".
func KeyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if mods&tcell.ModAlt != 0 {
		if name := arrowName(ev.Key()); name != "" {
			return "alt+" + name
		}
	}
	if mods&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyLeft:
			return "ctrl+left"
		case tcell.KeyRight:
			return "ctrl+right"
		case tcell.KeyUp:
			return "ctrl+up"
		case tcell.KeyDown:
			return "ctrl+down"
		}
	}
	// cmd only names the horizontal word jumps; other cmd keys are unbound.
	if mods&tcell.ModMeta != 0 {
		switch ev.Key() {
		case tcell.KeyLeft:
			return "cmd+left"
		case tcell.KeyRight:
			return "cmd+right"
		}
		return ""
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if mods&tcell.ModCtrl != 0 {
			return "ctrl+" + strings.ToLower(string(r))
		}
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// KeyTab == KeyCtrlI, so tab has to win over the ctrl names.
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	if name := arrowName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ""
}

func arrowName(k tcell.Key) string {
	switch k {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	}
	return ""
}

func ctrlKeyName(k tcell.Key) string {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(k-tcell.KeyCtrlA)))
	}
	return ""
}
