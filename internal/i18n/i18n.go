// Package i18n resolves dotted translation keys against embedded per-language
// bundles, falling back to English and then to the key itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

// Lang is a supported UI language.
type Lang string

const (
	EN Lang = "en"
	UK Lang = "uk"
	PL Lang = "pl"

	Default = EN
)

// Langs lists the supported languages in display order.
var Langs = []Lang{EN, UK, PL}

// Parse maps s (case-insensitive) to a supported language.
func Parse(s string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Langs {
		if v == l {
			return v, true
		}
	}
	return Default, false
}

//go:embed locales/*.json
var locales embed.FS

// Bundle holds the decoded translation trees.
type Bundle struct {
	trees map[Lang]map[string]any
}

// Load decodes the embedded bundles for every supported language.
func Load() (*Bundle, error) {
	b := &Bundle{trees: make(map[Lang]map[string]any, len(Langs))}
	for _, l := range Langs {
		raw, err := locales.ReadFile("locales/" + string(l) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read %s bundle: %w", l, err)
		}
		tree := map[string]any{}
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("decode %s bundle: %w", l, err)
		}
		b.trees[l] = tree
	}
	return b, nil
}

// MustLoad is Load for package initialisation.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// T returns the string at the dotted key for lang, the English string when
// lang lacks it, or key itself when neither bundle has it.
func (b *Bundle) T(lang Lang, key string) string {
	if s, ok := lookup(b.trees[lang], key); ok {
		return s
	}
	if s, ok := lookup(b.trees[Default], key); ok {
		return s
	}
	return key
}

// Translator binds a bundle to one language, for use from templates.
func (b *Bundle) Translator(lang Lang) func(key string) string {
	return func(key string) string { return b.T(lang, key) }
}

func lookup(tree map[string]any, key string) (string, bool) {
	if tree == nil {
		return "", false
	}
	var node any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}
