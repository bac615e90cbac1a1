package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGraph(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_TypedAndScalarActions(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir, "shop.yaml", `
app: com.example.shop
edges:
  home:
    - to: search
      cost: 2
      reliability: 0.9
      description: open search tab
      actions:
        - type: clickLabel
          label: Search
        - type: wait
          seconds: 0.5
  search:
    - to: home
      actions:
        - pressBack
`)

	g, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.AppID() != "com.example.shop" {
		t.Errorf("expected app id com.example.shop, got %q", g.AppID())
	}

	edges := g.EdgesFrom("home")
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge from home, got %d", len(edges))
	}
	e := edges[0]
	if e.To != "search" || e.Cost != 2 || e.Reliability != 0.9 {
		t.Errorf("unexpected edge: %+v", e)
	}
	if len(e.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(e.Actions))
	}
	click, ok := e.Actions[0].(ClickLabel)
	if !ok {
		t.Fatalf("expected ClickLabel, got %T", e.Actions[0])
	}
	if click.Label != "Search" {
		t.Errorf("expected label Search, got %q", click.Label)
	}
	wait, ok := e.Actions[1].(Wait)
	if !ok {
		t.Fatalf("expected Wait, got %T", e.Actions[1])
	}
	if wait.Seconds != 0.5 {
		t.Errorf("expected 0.5 seconds, got %v", wait.Seconds)
	}

	// Scalar shorthand.
	back := g.EdgesFrom("search")
	if len(back) != 1 || len(back[0].Actions) != 1 {
		t.Fatalf("unexpected search edges: %+v", back)
	}
	if _, ok := back[0].Actions[0].(PressBack); !ok {
		t.Errorf("expected PressBack, got %T", back[0].Actions[0])
	}
	// Unset weights get defaults.
	if back[0].Cost != DefaultCost || back[0].Reliability != DefaultReliability {
		t.Errorf("expected default weights, got %+v", back[0])
	}
}

func TestLoad_UnknownActionType(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir, "bad.yaml", `
app: com.example.shop
edges:
  home:
    - to: search
      actions:
        - teleport
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown action type")
	}
	if !strings.Contains(err.Error(), "teleport") {
		t.Errorf("error should name the bad type, got: %v", err)
	}
}

func TestLoad_MissingActionFields(t *testing.T) {
	tests := []struct {
		name   string
		action string
	}{
		{"clickText without text", "- type: clickText"},
		{"clickLabel without label", "- type: clickLabel"},
		{"launchApp without app", "- type: launchApp"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		path := writeGraph(t, dir, "bad.yaml", `
app: com.example.shop
edges:
  home:
    - to: search
      actions:
        `+tt.action+`
`)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLoad_MissingTo(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir, "bad.yaml", `
app: com.example.shop
edges:
  home:
    - actions:
        - pressBack
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for edge without to")
	}
}

func TestLoadDir_MergesSameApp(t *testing.T) {
	dir := t.TempDir()
	writeGraph(t, dir, "main.yaml", `
app: com.example.shop
edges:
  home:
    - to: search
      actions: [{type: clickLabel, label: Search}]
`)
	writeGraph(t, dir, "checkout.yml", `
app: com.example.shop
edges:
  cart:
    - to: checkout
      actions: [{type: clickText, text: Buy}]
`)
	writeGraph(t, dir, "other.yaml", `
app: com.example.news
edges:
  feed:
    - to: article
      actions: [{type: clickText, text: Read}]
`)

	graphs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graphs) != 2 {
		t.Fatalf("expected 2 graphs, got %d", len(graphs))
	}
	shop := graphs["com.example.shop"]
	if shop == nil {
		t.Fatal("shop graph missing")
	}
	if shop.Size() != 2 {
		t.Errorf("expected merged graph with 2 sources, got %d", shop.Size())
	}
}
