package signature

import (
	"testing"
	"time"
)

func TestNewWatcher_LoadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", `
app: com.example.shop
signatures:
  - screen: home
    unique: ["id:home_feed"]
`)

	store := NewStore()
	w, err := NewWatcher(store, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if _, ok := store.Signature("com.example.shop", "home"); !ok {
		t.Error("initial load should register existing signatures")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", `
app: com.example.shop
signatures:
  - screen: home
    unique: ["id:home_feed"]
`)

	store := NewStore()
	w, err := NewWatcher(store, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "app.yaml", `
app: com.example.shop
signatures:
  - screen: home
    unique: ["id:home_feed"]
  - screen: checkout
    unique: ["id:checkout_button"]
`)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := store.Signature("com.example.shop", "checkout"); ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher did not pick up the new signature")
}

func TestWatcher_MissingDirFails(t *testing.T) {
	store := NewStore()
	if _, err := NewWatcher(store, "/nonexistent/signature/dir"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
