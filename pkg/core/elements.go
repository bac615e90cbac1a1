package core

import (
	"sort"
	"strings"
)

// ElementSet is the normalized fingerprint of one UI dump: a flat set of
// string tokens ("id:search_bar", "text:Log in", ...). Membership tests
// are O(1). A set is built once per dump and never mutated afterwards.
type ElementSet map[string]struct{}

// NewElementSet builds a set from the given tokens.
func NewElementSet(tokens ...string) ElementSet {
	s := make(ElementSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts a token. Empty tokens are ignored.
func (s ElementSet) Add(token string) {
	if token != "" {
		s[token] = struct{}{}
	}
}

// Has reports whether the token is present.
func (s ElementSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens.
func (s ElementSet) Len() int {
	return len(s)
}

// WithPrefix returns the sorted values of all tokens carrying the given
// prefix, with the prefix stripped.
func (s ElementSet) WithPrefix(prefix string) []string {
	var out []string
	for token := range s {
		if strings.HasPrefix(token, prefix) {
			out = append(out, token[len(prefix):])
		}
	}
	sort.Strings(out)
	return out
}

// ContainsFold reports whether any token contains the given substring,
// case-insensitively. Used by "contains:" selectors.
func (s ElementSet) ContainsFold(substr string) bool {
	needle := strings.ToLower(substr)
	for token := range s {
		if strings.Contains(strings.ToLower(token), needle) {
			return true
		}
	}
	return false
}
