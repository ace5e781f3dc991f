// Package ui paints the editor's widgets onto a terminal screen.
package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/ropedit/internal/config"
)

// Theme is the resolved set of styles. It is built once from config and
// never changes afterwards.
type Theme struct {
	Main             tcell.Style
	Status           tcell.Style
	Command          tcell.Style
	LineNumber       tcell.Style
	LineNumberActive tcell.Style
	Popup            tcell.Style
	Border           tcell.Style

	syntax map[string]tcell.Style
}

func NewTheme(t config.Theme) Theme {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	statusFg := parseColor(t.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(t.StatuslineBackground, tcell.ColorGray)
	commandFg := parseColor(t.CommandlineForeground, statusFg)
	commandBg := parseColor(t.CommandlineBackground, statusBg)
	popupFg := parseColor(t.PopupForeground, mainFg)
	popupBg := parseColor(t.PopupBackground, mainBg)

	fg := func(c tcell.Color) tcell.Style {
		return tcell.StyleDefault.Foreground(c).Background(mainBg)
	}
	syntax := map[string]string{
		"keyword":     t.SyntaxKeyword,
		"string":      t.SyntaxString,
		"comment":     t.SyntaxComment,
		"type":        t.SyntaxType,
		"function":    t.SyntaxFunction,
		"number":      t.SyntaxNumber,
		"constant":    t.SyntaxConstant,
		"operator":    t.SyntaxOperator,
		"punctuation": t.SyntaxPunctuation,
		"field":       t.SyntaxField,
		"builtin":     t.SyntaxBuiltin,
		"variable":    t.SyntaxVariable,
		"parameter":   t.SyntaxParameter,
	}
	th := Theme{
		Main:             fg(mainFg),
		Status:           tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		Command:          tcell.StyleDefault.Foreground(commandFg).Background(commandBg),
		LineNumber:       fg(parseColor(t.LineNumberForeground, tcell.ColorGray)),
		LineNumberActive: fg(parseColor(t.LineNumberActiveForeground, mainFg)),
		Popup:            tcell.StyleDefault.Foreground(popupFg).Background(popupBg),
		Border:           tcell.StyleDefault.Foreground(parseColor(t.BorderForeground, popupFg)).Background(popupBg),
		syntax:           make(map[string]tcell.Style, len(syntax)),
	}
	for kind, color := range syntax {
		th.syntax[kind] = fg(parseColor(color, mainFg))
	}
	return th
}

// Syntax returns the style for a highlight kind.
func (t Theme) Syntax(kind string) (tcell.Style, bool) {
	st, ok := t.syntax[kind]
	return st, ok
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

func highlightPriority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "type", "function", "number", "parameter":
		return 3
	case "field", "variable":
		return 2
	case "operator", "punctuation":
		return 1
	}
	return 0
}
