package internal

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("emoji catalog is empty")

// Emoji is one commit category offered in the selection menu.
type Emoji struct {
	Glyph       string `yaml:"emoji" json:"emoji"`
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// Label renders the menu line: glyph, :code:, description.
func (e Emoji) Label() string {
	return fmt.Sprintf("%s :%s: %s", e.Glyph, e.Code, e.Description)
}

type Catalog struct {
	Emojis []Emoji `yaml:"emojis"`
}

func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file; an empty path yields the default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Emojis) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i, e := range c.Emojis {
		if e.Glyph == "" || e.Code == "" {
			return nil, fmt.Errorf("entry %d: emoji and code are required", i)
		}
	}
	return &c, nil
}

func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.Emojis))
	for i, e := range c.Emojis {
		labels[i] = e.Label()
	}
	return labels
}

// Lookup finds an entry by code, with or without surrounding colons.
func (c *Catalog) Lookup(code string) (Emoji, bool) {
	code = strings.Trim(code, ":")
	for _, e := range c.Emojis {
		if e.Code == code {
			return e, true
		}
	}
	return Emoji{}, false
}

// GlyphOf returns the first character of a menu label. Multi-codepoint
// emoji keep only their leading rune.
func GlyphOf(label string) string {
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return label[:size]
}
