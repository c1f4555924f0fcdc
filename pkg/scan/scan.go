// Package scan lists the configuration files below a data directory.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtension is the extension of the game's configuration files.
const DefaultExtension = ".ini"

var ErrNotDirectory = errors.New("not a directory")

type Options struct {
	// Extensions selects files by suffix, compared case-insensitively.
	// Defaults to DefaultExtension.
	Extensions []string
	// Exclude holds doublestar patterns matched against the slash separated
	// path relative to the root. Matching directories are not entered.
	Exclude []string
}

type Scanner struct {
	extensions []string
	exclude    []string
}

func New(opts Options) (*Scanner, error) {
	s := &Scanner{}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions = append(s.extensions, strings.ToLower(ext))
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("scan: invalid exclude pattern %q", pattern)
		}
		s.exclude = append(s.exclude, pattern)
	}

	return s, nil
}

// List returns the absolute paths of all configuration files below root,
// depth first, each directory in the order the filesystem reports it.
// Any directory that cannot be read fails the whole listing.
func (s *Scanner) List(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: %w", root, ErrNotDirectory)
	}

	type item struct {
		path  string
		isDir bool
	}

	var files []string
	stack := []item{{path: root, isDir: true}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.isDir {
			files = append(files, top.path)
			continue
		}

		entries, err := os.ReadDir(top.path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", top.path, err)
		}

		// pushed in reverse so that they pop in listing order
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			path := filepath.Join(top.path, entry.Name())
			if s.excluded(root, path) {
				continue
			}
			if entry.IsDir() {
				stack = append(stack, item{path: path, isDir: true})
			} else if s.Match(entry.Name()) {
				stack = append(stack, item{path: path})
			}
		}
	}

	return files, nil
}

// Match reports whether name carries one of the configured extensions.
func (s *Scanner) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(root, path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
