package registry

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FactionFile is the file holding faction definitions.
const FactionFile = "faction_prop.ini"

// Matcher decides whether a configuration file holds faction definitions.
// It receives the slash separated path relative to the scanned root.
type Matcher func(rel string) bool

// BasenameMatcher accepts files whose base name equals name, ignoring case.
func BasenameMatcher(name string) Matcher {
	return func(rel string) bool {
		return strings.EqualFold(path.Base(rel), name)
	}
}

// GlobMatcher accepts files whose relative path matches a doublestar
// pattern, ignoring case, e.g. "missions/faction_prop.ini".
func GlobMatcher(pattern string) (Matcher, error) {
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("registry: invalid faction file pattern %q", pattern)
	}
	return func(rel string) bool {
		matched, _ := doublestar.Match(pattern, strings.ToLower(rel))
		return matched
	}, nil
}
