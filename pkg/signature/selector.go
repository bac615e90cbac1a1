// Package signature implements screen fingerprints: the selector pattern
// language, per-screen signatures with confidence scoring, and the store
// that holds each application's signature collection.
package signature

import (
	"strings"
	"unicode"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// SelectorKind identifies how a selector string matches element tokens.
type SelectorKind int

const (
	KindAny        SelectorKind = iota // generic: label, text, or id
	KindIdentifier                     // exact full identifier
	KindIDSuffix                       // clone-safe id suffix, ignores package prefix
	KindText                           // exact text
	KindTextFold                       // case-insensitive text
	KindContains                       // substring over all tokens
	KindLabel                          // accessibility label
	KindClass                          // short class name
	KindOr                             // disjunction of alternatives
)

// String returns the string representation of SelectorKind.
func (k SelectorKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindIdentifier:
		return "identifier"
	case KindIDSuffix:
		return "id"
	case KindText:
		return "text"
	case KindTextFold:
		return "itext"
	case KindContains:
		return "contains"
	case KindLabel:
		return "label"
	case KindClass:
		return "class"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Selector is a parsed selector pattern. Parsing happens once at
// registration; matching is a pure lookup against a normalized element set.
type Selector struct {
	Raw          string
	Kind         SelectorKind
	Value        string
	Alternatives []Selector // populated for KindOr
}

// Parse turns a raw selector string into a typed Selector.
//
// Supported patterns:
//
//	identifier:login_button     exact identifier
//	:id/foo  or  id:foo         clone-safe id suffix
//	text:Log in                 exact text
//	itext:log in                case-insensitive text
//	contains:Reel by            substring search
//	label:Search and explore    accessibility label
//	class:Button or VideoView   short class name
//	a OR b                      either side matches
//
// Anything else is generic and matches label, text, or id tokens.
func Parse(raw string) Selector {
	s := Selector{Raw: raw}

	if strings.Contains(raw, " OR ") {
		s.Kind = KindOr
		for _, part := range strings.Split(raw, " OR ") {
			part = strings.TrimSpace(part)
			if part != "" {
				s.Alternatives = append(s.Alternatives, Parse(part))
			}
		}
		return s
	}

	switch {
	case strings.HasPrefix(raw, "contains:"):
		s.Kind = KindContains
		s.Value = strings.TrimPrefix(raw, "contains:")
	case strings.Contains(raw, ":id/"):
		// Clone-safe: keep only the part after the last ":id/" so that
		// ":id/foo" and "com.clone:id/foo" select the same element.
		s.Kind = KindIDSuffix
		idx := strings.LastIndex(raw, ":id/")
		s.Value = raw[idx+len(":id/"):]
	case strings.HasPrefix(raw, "id:"):
		s.Kind = KindIDSuffix
		s.Value = strings.TrimPrefix(raw, "id:")
	case strings.HasPrefix(raw, "identifier:"):
		s.Kind = KindIdentifier
		s.Value = strings.TrimPrefix(raw, "identifier:")
	case strings.HasPrefix(raw, "text:"):
		s.Kind = KindText
		s.Value = strings.TrimPrefix(raw, "text:")
	case strings.HasPrefix(raw, "itext:"):
		s.Kind = KindTextFold
		s.Value = strings.TrimPrefix(raw, "itext:")
	case strings.HasPrefix(raw, "label:"):
		s.Kind = KindLabel
		s.Value = strings.TrimPrefix(raw, "label:")
	case strings.HasPrefix(raw, "class:"):
		s.Kind = KindClass
		s.Value = strings.TrimPrefix(raw, "class:")
	case isShortClassName(raw):
		s.Kind = KindClass
		s.Value = raw
	default:
		s.Kind = KindAny
		s.Value = raw
	}
	return s
}

// isShortClassName reports whether the selector looks like a bare class
// name (capitalized, no separator), e.g. "VideoView".
func isShortClassName(raw string) bool {
	if raw == "" || strings.Contains(raw, ":") {
		return false
	}
	return unicode.IsUpper(rune(raw[0]))
}

// Matches reports whether the selector matches any element in the set.
func (s Selector) Matches(elements core.ElementSet) bool {
	switch s.Kind {
	case KindOr:
		for _, alt := range s.Alternatives {
			if alt.Matches(elements) {
				return true
			}
		}
		return false
	case KindContains:
		return elements.ContainsFold(s.Value)
	case KindIDSuffix:
		return elements.Has("id:" + s.Value)
	case KindIdentifier:
		return elements.Has("identifier:" + s.Value)
	case KindText:
		return elements.Has("text:" + s.Value)
	case KindTextFold:
		return elements.Has("text-lower:" + strings.ToLower(s.Value))
	case KindLabel:
		return elements.Has("label:" + s.Value)
	case KindClass:
		return elements.Has("class-short:"+s.Value) || elements.Has("class:"+s.Value)
	default: // KindAny
		return elements.Has("label:"+s.Value) ||
			elements.Has("text:"+s.Value) ||
			elements.Has("id:"+s.Value)
	}
}
