package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestBuildDriver(t *testing.T) {
	if _, err := buildDriver("mock"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := buildDriver("uiautomator2"); err == nil {
		t.Error("expected error for unavailable driver")
	}
}

func testContext(t *testing.T, args map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", 0)
	for _, f := range GlobalFlags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("applying flag: %v", err)
		}
	}
	for name, value := range args {
		if err := set.Set(name, value); err != nil {
			t.Fatalf("setting %s: %v", name, err)
		}
	}
	return cli.NewContext(nil, set, nil)
}

func TestNewSession_LoadsWorkspace(t *testing.T) {
	dir := t.TempDir()
	sigDir := filepath.Join(dir, "signatures")
	graphDir := filepath.Join(dir, "graphs")
	if err := os.MkdirAll(sigDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(graphDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sigDir, "shop.yaml"), []byte(`
app: com.example.shop
signatures:
  - screen: home
    unique: ["id:home_feed"]
`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(graphDir, "shop.yaml"), []byte(`
app: com.example.shop
edges:
  home:
    - to: search
      actions:
        - {type: clickLabel, label: Search}
`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
app: com.example.shop
signaturesDir: signatures
graphsDir: graphs
`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := newSession(testContext(t, map[string]string{
		"config": filepath.Join(dir, "config.yaml"),
		"device": "test-device",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.close()

	if s.appID != "com.example.shop" {
		t.Errorf("unexpected app id: %s", s.appID)
	}
	if s.engine.Graph("com.example.shop") == nil {
		t.Error("graph should be loaded")
	}
	if _, ok := s.engine.Store().Signature("com.example.shop", "home"); !ok {
		t.Error("signatures should be loaded")
	}
	if len(s.engine.Devices()) != 1 {
		t.Errorf("expected one attached device, got %v", s.engine.Devices())
	}
}

func TestNewSession_MissingDirsTolerated(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	s, err := newSession(testContext(t, map[string]string{"app": "com.example.shop"}))
	if err != nil {
		t.Fatalf("a bare workspace should still open: %v", err)
	}
	s.close()
}
