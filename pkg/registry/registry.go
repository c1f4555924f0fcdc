// Package registry builds the nickname lookup for a game data directory.
//
// A build lists every configuration file below the directory, extracts the
// identifier fields and stores hash -> nickname. Entity nicknames come from
// the "nickname" key of every file; faction nicknames come from the
// "affiliation" key of the faction file and use the 16-bit faction hash.
// When two nicknames share a hash the one processed later wins.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	flhash "github.com/burgrp-go/flhash/pkg"
	"github.com/burgrp-go/flhash/pkg/inifile"
	"github.com/burgrp-go/flhash/pkg/logger"
	"github.com/burgrp-go/flhash/pkg/scan"
)

var ErrNotBuilt = errors.New("registry has not been built")

type Kind uint8

const (
	KindEntity Kind = iota
	KindFaction
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindFaction:
		return "faction"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry pairs a hash code with the nickname it was computed from.
type Entry struct {
	Hash     uint32
	Nickname string
	Kind     Kind
	// File is the slash separated path of the defining file, relative to
	// the root.
	File string
}

// Stats describes the last successful build.
type Stats struct {
	Files            int
	Skipped          int
	EntityNicknames  int
	FactionNicknames int
	Entries          int
	Collisions       int
	FactionFile      string
	Duration         time.Duration
}

type Options struct {
	Scan  scan.Options
	Parse inifile.Options
	// IsFactionFile selects the faction file. Only the first file it accepts
	// is treated as one. Defaults to BasenameMatcher(FactionFile).
	IsFactionFile Matcher
	// SkipInvalid logs and skips files that fail to parse instead of
	// failing the build.
	SkipInvalid bool
	// Hashers default to the process-wide ones.
	Entity  *flhash.EntityHasher
	Faction *flhash.FactionHasher
}

type Registry struct {
	scanner       *scan.Scanner
	parse         inifile.Options
	isFactionFile Matcher
	skipInvalid   bool
	entity        *flhash.EntityHasher
	faction       *flhash.FactionHasher

	mu      sync.RWMutex
	root    string
	entries map[uint32]Entry
	stats   Stats
}

func New(opts Options) (*Registry, error) {
	scanner, err := scan.New(opts.Scan)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		scanner:       scanner,
		parse:         opts.Parse,
		isFactionFile: opts.IsFactionFile,
		skipInvalid:   opts.SkipInvalid,
		entity:        opts.Entity,
		faction:       opts.Faction,
		entries:       make(map[uint32]Entry),
	}
	if reg.isFactionFile == nil {
		reg.isFactionFile = BasenameMatcher(FactionFile)
	}
	if reg.entity == nil {
		reg.entity = flhash.DefaultEntityHasher()
	}
	if reg.faction == nil {
		reg.faction = flhash.DefaultFactionHasher()
	}

	return reg, nil
}

type source struct {
	nickname string
	file     string
}

// Build replaces the registry content with the nicknames found below root.
// On error the previous content stays in place.
func (reg *Registry) Build(root string) error {
	start := time.Now()

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	files, err := reg.scanner.List(root)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	stats := Stats{Files: len(files)}
	var entities, factions []source

	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}
		rel = filepath.ToSlash(rel)

		tree, err := inifile.ParseFile(file, reg.parse)
		if err != nil {
			if reg.skipInvalid {
				logger.L.Warn("skipping unparsable file", "file", rel, "error", err)
				stats.Skipped++
				continue
			}
			return fmt.Errorf("registry: %w", err)
		}

		if stats.FactionFile == "" && reg.isFactionFile(rel) {
			stats.FactionFile = rel
			factions = appendSources(factions, ExtractValues(tree, AffiliationKey), rel)
			continue
		}
		entities = appendSources(entities, ExtractValues(tree, NicknameKey), rel)
	}

	staged := make(map[uint32]Entry, len(entities)+len(factions))
	put := func(e Entry) {
		if prev, ok := staged[e.Hash]; ok && !strings.EqualFold(prev.Nickname, e.Nickname) {
			stats.Collisions++
			logger.L.Debug("hash collision", "hash", e.Hash, "previous", prev.Nickname, "nickname", e.Nickname, "file", e.File)
		}
		staged[e.Hash] = e
	}

	for _, src := range entities {
		put(Entry{Hash: reg.entity.Hash(src.nickname).Get(), Nickname: src.nickname, Kind: KindEntity, File: src.file})
	}
	for _, src := range factions {
		put(Entry{Hash: uint32(reg.faction.Hash(src.nickname).Get()), Nickname: src.nickname, Kind: KindFaction, File: src.file})
	}

	stats.EntityNicknames = len(entities)
	stats.FactionNicknames = len(factions)
	stats.Entries = len(staged)
	stats.Duration = time.Since(start)

	reg.mu.Lock()
	reg.root = root
	reg.entries = staged
	reg.stats = stats
	reg.mu.Unlock()

	logger.L.Info("registry built",
		"root", root,
		"files", stats.Files,
		"entries", stats.Entries,
		"collisions", stats.Collisions,
		"faction_file", stats.FactionFile,
		"duration", stats.Duration)

	return nil
}

// appendSources adds the non-empty nicknames of one file.
func appendSources(dst []source, nicknames []string, file string) []source {
	for _, n := range nicknames {
		if n == "" {
			continue
		}
		dst = append(dst, source{nickname: n, file: file})
	}
	return dst
}

// Rebuild builds again from the root of the last successful build.
func (reg *Registry) Rebuild() error {
	root := reg.Root()
	if root == "" {
		return ErrNotBuilt
	}
	return reg.Build(root)
}

// Root returns the directory of the last successful build.
func (reg *Registry) Root() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.root
}

func (reg *Registry) Stats() Stats {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.stats
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.entries)
}

// Lookup returns the nickname registered under hash.
func (reg *Registry) Lookup(hash uint32) (string, bool) {
	e, ok := reg.LookupEntry(hash)
	return e.Nickname, ok
}

func (reg *Registry) LookupEntry(hash uint32) (Entry, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.entries[hash]
	return e, ok
}

// LookupString parses s with flhash.ParseHash and looks the code up.
// Text that is not a hash code is simply not found.
func (reg *Registry) LookupString(s string) (string, bool) {
	hash, err := flhash.ParseHash(s)
	if err != nil {
		return "", false
	}
	return reg.Lookup(hash)
}

// HashOf returns the entity hash of nickname.
func (reg *Registry) HashOf(nickname string) flhash.Optional[uint32] {
	return reg.entity.Hash(nickname)
}

// FactionHashOf returns the faction hash of nickname.
func (reg *Registry) FactionHashOf(nickname string) flhash.Optional[uint16] {
	return reg.faction.Hash(nickname)
}

// Entries returns a copy of the registry ordered by hash.
func (reg *Registry) Entries() []Entry {
	reg.mu.RLock()
	entries := make([]Entry, 0, len(reg.entries))
	for _, e := range reg.entries {
		entries = append(entries, e)
	}
	reg.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Hash < entries[j].Hash
	})
	return entries
}

// IsConfigFile reports whether a file name is one the build would read.
func (reg *Registry) IsConfigFile(name string) bool {
	return reg.scanner.Match(name)
}
