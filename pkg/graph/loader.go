package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// graphFile is the YAML shape of a per-app graph configuration file.
type graphFile struct {
	App   string                `yaml:"app"`
	Edges map[string][]edgeSpec `yaml:"edges"`
}

type edgeSpec struct {
	To          string       `yaml:"to"`
	Cost        float64      `yaml:"cost"`
	Reliability float64      `yaml:"reliability"`
	Description string       `yaml:"description"`
	Actions     []actionSpec `yaml:"actions"`
}

// actionSpec captures one action entry. It unmarshals from a bare scalar
// ("pressBack") or a struct ({type: clickText, text: "Next"}).
type actionSpec struct {
	TypeName    string  `yaml:"type"`
	Text        string  `yaml:"text"`
	Label       string  `yaml:"label"`
	Selector    string  `yaml:"selector"`
	Direction   string  `yaml:"direction"`
	StartX      float64 `yaml:"startX"`
	StartY      float64 `yaml:"startY"`
	EndX        float64 `yaml:"endX"`
	EndY        float64 `yaml:"endY"`
	DurationMs  int     `yaml:"durationMs"`
	Seconds     float64 `yaml:"seconds"`
	App         string  `yaml:"app"`
	WaitAfterMs int     `yaml:"waitAfterMs"`
	Description string  `yaml:"description"`
}

// UnmarshalYAML allows actionSpec to be unmarshaled from string or struct.
func (a *actionSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.TypeName = node.Value
		return nil
	}
	type raw actionSpec
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	*a = actionSpec(r)
	return nil
}

// Build converts the spec into a typed Action.
func (a *actionSpec) Build() (Action, error) {
	base := BaseAction{WaitAfterMs: a.WaitAfterMs, Description: a.Description}
	switch ActionType(a.TypeName) {
	case ActionPressBack:
		return PressBack{BaseAction: base}, nil
	case ActionClickText:
		if a.Text == "" {
			return nil, fmt.Errorf("clickText action requires text")
		}
		return ClickText{BaseAction: base, Text: a.Text}, nil
	case ActionClickLabel:
		if a.Label == "" {
			return nil, fmt.Errorf("clickLabel action requires label")
		}
		return ClickLabel{BaseAction: base, Label: a.Label}, nil
	case ActionClickSelector:
		if a.Selector == "" {
			return nil, fmt.Errorf("clickSelector action requires selector")
		}
		return ClickSelector{BaseAction: base, Selector: a.Selector}, nil
	case ActionSwipe:
		return Swipe{
			BaseAction: base,
			Direction:  strings.ToLower(a.Direction),
			StartX:     a.StartX, StartY: a.StartY,
			EndX: a.EndX, EndY: a.EndY,
			DurationMs: a.DurationMs,
		}, nil
	case ActionWait:
		return Wait{BaseAction: base, Seconds: a.Seconds}, nil
	case ActionLaunchApp:
		if a.App == "" {
			return nil, fmt.Errorf("launchApp action requires app")
		}
		return LaunchApp{BaseAction: base, AppID: a.App}, nil
	default:
		return nil, fmt.Errorf("unknown action type: %q", a.TypeName)
	}
}

// Load parses one graph file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided graph file
	if err != nil {
		return nil, err
	}
	var gf graphFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if gf.App == "" {
		return nil, fmt.Errorf("%s: missing app id", path)
	}

	g := New(gf.App)
	// Stable source order: yaml maps do not guarantee one.
	sources := make([]string, 0, len(gf.Edges))
	for from := range gf.Edges {
		sources = append(sources, from)
	}
	sort.Strings(sources)

	for _, from := range sources {
		for i, spec := range gf.Edges[from] {
			if spec.To == "" {
				return nil, fmt.Errorf("%s: %s edge %d: missing to", path, from, i)
			}
			actions := make([]Action, 0, len(spec.Actions))
			for j := range spec.Actions {
				action, err := spec.Actions[j].Build()
				if err != nil {
					return nil, fmt.Errorf("%s: %s -> %s action %d: %w", path, from, spec.To, j, err)
				}
				actions = append(actions, action)
			}
			g.AddEdge(from, Edge{
				To:          spec.To,
				Actions:     actions,
				Cost:        spec.Cost,
				Reliability: spec.Reliability,
				Description: spec.Description,
			})
		}
	}
	return g, nil
}

// LoadDir loads every .yaml/.yml graph file in a directory, keyed by app.
// Multiple files for the same app merge their edge lists.
func LoadDir(dir string) (map[string]*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	graphs := make(map[string]*Graph)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		g, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if existing, ok := graphs[g.AppID()]; ok {
			for _, from := range g.Sources() {
				for _, e := range g.EdgesFrom(from) {
					existing.AddEdge(from, e)
				}
			}
			continue
		}
		graphs[g.AppID()] = g
	}
	return graphs, nil
}
