// Package inifile reads the game's text configuration files into a two-level
// tree of sections and keys. Every value is an inline list, so a key maps to
// a sequence of strings.
package inifile

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/ini.v1"
)

const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

type Options struct {
	// Encoding of the input, EncodingUTF8 when empty.
	Encoding string
}

// Section is one [Name] block, or the global block holding keys that appear
// before the first section header.
type Section struct {
	Name   string
	keys   []string
	values map[string][]string
}

func newSection(name string) *Section {
	return &Section{Name: name, values: make(map[string][]string)}
}

func (s *Section) add(key string, values ...string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = append(s.values[key], values...)
}

// Set appends values to key in the section.
func (s *Section) Set(key string, values ...string) *Section {
	s.add(key, values...)
	return s
}

// Keys returns the key names in order of first appearance.
func (s *Section) Keys() []string {
	return s.keys
}

// Values returns every value stored under key, nil if the key is absent.
func (s *Section) Values(key string) []string {
	return s.values[key]
}

// Tree is a parsed file. Sections keeps file order and may repeat a name,
// which the game's files do for every [Ship], [Commodity] and so on.
type Tree struct {
	Global   *Section
	Sections []*Section
}

func NewTree() *Tree {
	return &Tree{Global: newSection("")}
}

// AddSection appends a section and returns it.
func (t *Tree) AddSection(name string) *Section {
	s := newSection(name)
	t.Sections = append(t.Sections, s)
	return s
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts Options) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Parse converts configuration text into a Tree.
func Parse(data []byte, opts Options) (*Tree, error) {
	data, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:               true,
		AllowNonUniqueSections:     true,
		AllowDuplicateShadowValues: true,
		SkipUnrecognizableLines:    true,
		IgnoreContinuation:         true,
		KeyValueDelimiters:         "=",
	}, data)
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	for i, sec := range f.Sections() {
		target := tree.Global
		if i > 0 || sec.Name() != ini.DefaultSection {
			target = tree.AddSection(sec.Name())
		}
		for _, key := range sec.Keys() {
			for _, raw := range key.ValueWithShadows() {
				target.add(key.Name(), splitList(raw)...)
			}
		}
	}
	return tree, nil
}

// splitList splits an inline list value. Items are trimmed; empty items stay.
func splitList(raw string) []string {
	items := strings.Split(raw, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

func decode(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return data, nil
	case EncodingWindows1252, "cp1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("inifile: decode windows-1252: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("inifile: unsupported encoding %q", encoding)
	}
}
