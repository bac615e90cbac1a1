// Package detector turns raw UI dumps into normalized element sets and
// classifies the current screen against registered signatures, with a
// short-lived dump cache and rolling detection stats.
package detector

import (
	"strings"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// Normalize flattens a UI tree into the token set used for matching.
// It is pure: the same dump always yields the same set.
//
// Per node it emits:
//
//	identifier:<full id>
//	id:<suffix after the last ":id/">   (clone-safe)
//	label:<label>        label-lower:<lowercased>
//	text:<text>          text-lower:<lowercased>
//	class:<class>        class-short:<last dot segment>
//	clickable:<label or text>           (clickable nodes only)
//
// Nodes with zero-area bounds or an explicit not-visible state contribute
// nothing; their children are still visited.
func Normalize(root *core.UITreeNode) core.ElementSet {
	elements := make(core.ElementSet)
	root.Walk(func(n *core.UITreeNode) {
		if !n.Visible || n.Bounds.Empty() {
			return
		}
		if n.Identifier != "" {
			elements.Add("identifier:" + n.Identifier)
			elements.Add("id:" + idSuffix(n.Identifier))
		}
		if n.Label != "" {
			elements.Add("label:" + n.Label)
			elements.Add("label-lower:" + strings.ToLower(n.Label))
		}
		if n.Text != "" {
			elements.Add("text:" + n.Text)
			elements.Add("text-lower:" + strings.ToLower(n.Text))
		}
		if n.Class != "" {
			elements.Add("class:" + n.Class)
			elements.Add("class-short:" + shortClass(n.Class))
		}
		if n.Clickable {
			switch {
			case n.Label != "":
				elements.Add("clickable:" + n.Label)
			case n.Text != "":
				elements.Add("clickable:" + n.Text)
			}
		}
	})
	return elements
}

// idSuffix strips the namespace/package prefix from a resource identifier
// so clones and rebrands normalize to the same token.
func idSuffix(identifier string) string {
	if idx := strings.LastIndex(identifier, ":id/"); idx >= 0 {
		return identifier[idx+len(":id/"):]
	}
	return identifier
}

func shortClass(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}
