package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language binds file names to a highlighting grammar.
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
	Grammar   string   `toml:"grammar"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}, Grammar: "go"},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}, Grammar: "yaml"},
		{Name: "toml", FileTypes: []string{"toml"}, Grammar: "toml"},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".zshrc"}, Grammar: "bash"},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// GrammarFor returns the grammar name for path, or "" when nothing matches.
func (l Languages) GrammarFor(path string) string {
	lang := l.Match(path)
	if lang == nil {
		return ""
	}
	if lang.Grammar != "" {
		return lang.Grammar
	}
	return lang.Name
}

// LoadLanguages returns the built-in languages with user entries from
// languages.toml taking precedence.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, err
	}
	cfg.Languages = append(cfg.Languages, defaults.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
