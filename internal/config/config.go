package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	LineNumbers     string `toml:"line-numbers"`
	LineNumberWidth int    `toml:"line-number-width"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	UndoGrouping    string `toml:"undo-grouping"`
	UndoLimit       int    `toml:"undo-limit"`
	PopupBorder     string `toml:"popup-border"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	CommandlineForeground      string `toml:"commandline-foreground"`
	CommandlineBackground      string `toml:"commandline-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	PopupForeground            string `toml:"popup-foreground"`
	PopupBackground            string `toml:"popup-background"`
	BorderForeground           string `toml:"border-foreground"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxOperator             string `toml:"syntax-operator"`
	SyntaxPunctuation          string `toml:"syntax-punctuation"`
	SyntaxField                string `toml:"syntax-field"`
	SyntaxBuiltin              string `toml:"syntax-builtin"`
	SyntaxVariable             string `toml:"syntax-variable"`
	SyntaxParameter            string `toml:"syntax-parameter"`
}

// Keymap maps a key string such as "ctrl+z" or "cmd+left" to an action name.
type Keymap map[string]string

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			LineNumbers:     "relative",
			LineNumberWidth: 8,
			GitBranchSymbol: "Git:",
			UndoGrouping:    "word",
			PopupBorder:     "solid",
		},
		Theme: Theme{
			Foreground:                 "#D3D0C8",
			Background:                 "#2D2D2D",
			StatuslineForeground:       "#D3D0C8",
			StatuslineBackground:       "#393939",
			CommandlineForeground:      "#D3D0C8",
			CommandlineBackground:      "#2D2D2D",
			LineNumberForeground:       "#747369",
			LineNumberActiveForeground: "#FFCC66",
			PopupForeground:            "#D3D0C8",
			PopupBackground:            "#393939",
			BorderForeground:           "#747369",
			SyntaxKeyword:              "#CC99CC",
			SyntaxString:               "#99CC99",
			SyntaxComment:              "#747369",
			SyntaxType:                 "#FFCC66",
			SyntaxFunction:             "#6699CC",
			SyntaxNumber:               "#F99157",
			SyntaxConstant:             "#F99157",
			SyntaxOperator:             "#66CCCC",
			SyntaxPunctuation:          "#A09F93",
			SyntaxField:                "#F2777A",
			SyntaxBuiltin:              "#66CCCC",
			SyntaxVariable:             "#D3D0C8",
			SyntaxParameter:            "#D3D0C8",
		},
		Keymap: Keymap{
			"left":       "char_left",
			"right":      "char_right",
			"up":         "line_up",
			"down":       "line_down",
			"ctrl+left":  "word_left",
			"ctrl+right": "word_right",
			"cmd+left":   "word_left",
			"cmd+right":  "word_right",
			"alt+left":   "word_left",
			"alt+right":  "word_right",
			"pgup":       "page_up",
			"pgdn":       "page_down",
			"home":       "file_start",
			"end":        "file_end",
			"ctrl+home":  "line_start",
			"ctrl+end":   "line_end",
			"ctrl+a":     "line_start",
			"ctrl+e":     "line_end",
			"backspace":  "backspace",
			"del":        "delete_char",
			"enter":      "newline",
			"tab":        "tab",
			"esc":        "cancel",
			"ctrl+z":     "undo",
			"ctrl+y":     "redo",
			"ctrl+r":     "redo",
			"ctrl+s":     "save",
			"ctrl+q":     "quit",
			"ctrl+c":     "quit",
			"ctrl+v":     "paste",
			"ctrl+k":     "copy_line",
			"ctrl+g":     "enter_command",
			"ctrl+f":     "find",
			"ctrl+w":     "commit",
			"ctrl+o":     "focus_next",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	mergeEditor(&cfg.Editor, userCfg.Editor)
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}
	return cfg, nil
}

func mergeEditor(dst *EditorOptions, src EditorOptions) {
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.LineNumbers != "" {
		dst.LineNumbers = src.LineNumbers
	}
	if src.LineNumberWidth > 0 {
		dst.LineNumberWidth = src.LineNumberWidth
	}
	if src.GitBranchSymbol != "" {
		dst.GitBranchSymbol = src.GitBranchSymbol
	}
	if src.UndoGrouping != "" {
		dst.UndoGrouping = src.UndoGrouping
	}
	if src.UndoLimit > 0 {
		dst.UndoLimit = src.UndoLimit
	}
	if src.PopupBorder != "" {
		dst.PopupBorder = src.PopupBorder
	}
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.CommandlineForeground, src.CommandlineForeground)
	set(&dst.CommandlineBackground, src.CommandlineBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.LineNumberActiveForeground, src.LineNumberActiveForeground)
	set(&dst.PopupForeground, src.PopupForeground)
	set(&dst.PopupBackground, src.PopupBackground)
	set(&dst.BorderForeground, src.BorderForeground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxOperator, src.SyntaxOperator)
	set(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	set(&dst.SyntaxField, src.SyntaxField)
	set(&dst.SyntaxBuiltin, src.SyntaxBuiltin)
	set(&dst.SyntaxVariable, src.SyntaxVariable)
	set(&dst.SyntaxParameter, src.SyntaxParameter)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml, either bare keys or a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	md, err := toml.Decode(string(data), &wrap)
	if err != nil {
		return Theme{}, err
	}
	if md.IsDefined("theme") {
		return wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("ROPEDIT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ropedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ropedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
