package registry

import "github.com/burgrp-go/flhash/pkg/inifile"

const (
	// NicknameKey names entity identifiers in every configuration file.
	NicknameKey = "nickname"
	// AffiliationKey names faction identifiers in the faction file.
	AffiliationKey = "affiliation"
)

// ExtractValues collects the values stored under key, first among the
// top-level keys and then one level down in each section, in file order.
// Deeper nesting does not exist in the tree. Duplicates and empty strings are
// returned as found.
func ExtractValues(tree *inifile.Tree, key string) []string {
	if tree == nil {
		return nil
	}

	var values []string
	if tree.Global != nil {
		values = append(values, tree.Global.Values(key)...)
	}
	for _, section := range tree.Sections {
		values = append(values, section.Values(key)...)
	}
	return values
}
