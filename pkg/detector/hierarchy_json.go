package detector

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// ParseHierarchyJSON parses a JSON view hierarchy (the format emitted by
// drivers that report JSON instead of uiautomator XML) into a tree.
// Attribute names follow the common driver variants: resourceId/resource-id,
// contentDescription/label, class/type, bounds as {x,y,width,height}.
func ParseHierarchyJSON(data []byte) (*core.UITreeNode, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid hierarchy json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("invalid hierarchy json: expected object root")
	}
	return jsonNode(root), nil
}

func jsonNode(v gjson.Result) *core.UITreeNode {
	node := &core.UITreeNode{
		Identifier: firstString(v, "resourceId", "resource-id", "identifier", "id"),
		Text:       v.Get("text").String(),
		Label:      firstString(v, "label", "contentDescription", "content-desc", "accessibilityLabel"),
		Class:      firstString(v, "class", "className", "type"),
		Clickable:  v.Get("clickable").Bool(),
		Visible:    true,
	}
	if vis := v.Get("visible"); vis.Exists() {
		node.Visible = vis.Bool()
	} else if disp := v.Get("displayed"); disp.Exists() {
		node.Visible = disp.Bool()
	}

	bounds := v.Get("bounds")
	if !bounds.Exists() {
		bounds = v.Get("rect")
	}
	if bounds.Exists() {
		node.Bounds = core.Bounds{
			X:      int(bounds.Get("x").Int()),
			Y:      int(bounds.Get("y").Int()),
			Width:  int(bounds.Get("width").Int()),
			Height: int(bounds.Get("height").Int()),
		}
	}

	v.Get("children").ForEach(func(_, child gjson.Result) bool {
		node.Children = append(node.Children, jsonNode(child))
		return true
	})
	return node
}

func firstString(v gjson.Result, keys ...string) string {
	for _, key := range keys {
		if r := v.Get(key); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
