package detector

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// ParseHierarchyXML parses an Android UI hierarchy dump into a tree.
// Supports both formats:
// - UIAutomator dump: uses class name as element tag (e.g., <android.widget.FrameLayout>)
// - Appium format: uses <node> elements with a class attribute
func ParseHierarchyXML(xmlData string) (*core.UITreeNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlData))

	foundHierarchy := false
	var parseNode func() (*core.UITreeNode, error)

	parseNode = func() (*core.UITreeNode, error) {
		for {
			token, err := decoder.Token()
			if err != nil {
				return nil, err
			}

			switch t := token.(type) {
			case xml.StartElement:
				// The hierarchy wrapper is not itself a node.
				if t.Name.Local == "hierarchy" {
					foundHierarchy = true
					continue
				}

				node := &core.UITreeNode{
					Class:   t.Name.Local, // class name is the element tag
					Visible: true,
				}

				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "resource-id":
						node.Identifier = attr.Value
					case "text":
						node.Text = attr.Value
					case "content-desc":
						node.Label = attr.Value
					case "class":
						node.Class = attr.Value // override if class attr exists
					case "bounds":
						node.Bounds = parseBounds(attr.Value)
					case "clickable":
						node.Clickable = attr.Value == "true"
					case "displayed", "visible", "visible-to-user":
						node.Visible = attr.Value != "false"
					}
				}

				for {
					child, err := parseNode()
					if err != nil {
						return nil, err
					}
					if child == nil {
						break
					}
					node.Children = append(node.Children, child)
				}
				return node, nil

			case xml.EndElement:
				return nil, nil // end of current element
			}
		}
	}

	// The synthetic root carries zero bounds so normalization treats it
	// as a wrapper and only its children contribute tokens.
	root := &core.UITreeNode{Class: "hierarchy", Visible: true}
	for {
		node, err := parseNode()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if node != nil {
			root.Children = append(root.Children, node)
		}
	}

	if !foundHierarchy {
		return nil, fmt.Errorf("invalid hierarchy dump: no hierarchy element found")
	}
	return root, nil
}

var boundsRe = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// parseBounds parses the Android bounds string "[x1,y1][x2,y2]".
func parseBounds(s string) core.Bounds {
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return core.Bounds{}
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	x2, _ := strconv.Atoi(m[3])
	y2, _ := strconv.Atoi(m[4])
	return core.Bounds{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
