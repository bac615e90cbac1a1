package detector

import (
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/screengraph/pkg/driver/mock"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

const testApp = "com.example.shop"

func testStore(t *testing.T) *signature.Store {
	t.Helper()
	store := signature.NewStore()
	err := store.Register(testApp, []*signature.ScreenSignature{
		{
			AppID:     testApp,
			ScreenID:  "home",
			Priority:  30,
			SafeState: true,
			Unique:    []string{"id:home_feed"},
		},
		{
			AppID:    testApp,
			ScreenID: "search",
			Priority: 30,
			Required: []string{"id:search_bar", "id:search_results", "label:Filters"},
			Optional: []string{"id:recent_searches"},
		},
		{
			AppID:     testApp,
			ScreenID:  "login",
			Priority:  20,
			Required:  []string{"id:username", "id:password"},
			Forbidden: []string{"id:home_feed"},
		},
	})
	if err != nil {
		t.Fatalf("registering signatures: %v", err)
	}
	return store
}

func testDriver() *mock.Driver {
	d := mock.New("home")
	d.AddScreen("home", mock.Tree(mock.IDNode("com.example.shop:id/home_feed")))
	d.AddScreen("search", mock.Tree(
		mock.IDNode("com.example.shop:id/search_bar"),
		mock.IDNode("com.example.shop:id/search_results"),
		mock.LabelNode("Filters"),
	))
	d.AddScreen("login", mock.Tree(
		mock.IDNode("com.example.shop:id/username"),
		mock.IDNode("com.example.shop:id/password"),
	))
	d.AddScreen("mystery", mock.Tree(mock.TextNode("Something new")))
	return d
}

func TestDetect_UniqueMatch(t *testing.T) {
	det := New(testDriver(), testStore(t), Config{})

	result := det.Detect(testApp, true)
	if result.ScreenID != "home" {
		t.Fatalf("expected home, got %s", result.ScreenID)
	}
	if result.Confidence != 1.0 || !result.Confident {
		t.Errorf("expected full confidence, got %v confident=%v", result.Confidence, result.Confident)
	}
	if !result.SafeState {
		t.Error("home is a safe state")
	}
	if len(result.MatchedElements) != 1 || !strings.HasPrefix(result.MatchedElements[0], "unique:") {
		t.Errorf("unexpected matched elements: %v", result.MatchedElements)
	}
	if result.FullID() != testApp+"/home" {
		t.Errorf("unexpected full id: %s", result.FullID())
	}
}

func TestDetect_PartialRequiredMatch(t *testing.T) {
	driver := testDriver()
	// Two of three required selectors present.
	driver.AddScreen("partial_search", mock.Tree(
		mock.IDNode("com.example.shop:id/search_bar"),
		mock.IDNode("com.example.shop:id/search_results"),
	))
	driver.SetCurrent("partial_search")

	det := New(driver, testStore(t), Config{})
	result := det.Detect(testApp, true)
	if result.ScreenID != "search" {
		t.Fatalf("expected search, got %s", result.ScreenID)
	}
	if result.Confidence < 0.66 || result.Confidence > 0.67 {
		t.Errorf("expected confidence 2/3, got %v", result.Confidence)
	}
	if result.Confident {
		t.Error("2/3 should stay below the confident threshold")
	}
}

func TestDetect_ForbiddenBlocksLogin(t *testing.T) {
	driver := testDriver()
	// Login form visible together with the home feed: forbidden element
	// zeroes login, home's unique match wins.
	driver.AddScreen("overlap", mock.Tree(
		mock.IDNode("com.example.shop:id/username"),
		mock.IDNode("com.example.shop:id/password"),
		mock.IDNode("com.example.shop:id/home_feed"),
	))
	driver.SetCurrent("overlap")

	det := New(driver, testStore(t), Config{})
	result := det.Detect(testApp, true)
	if result.ScreenID != "home" {
		t.Fatalf("expected home to win over forbidden login, got %s", result.ScreenID)
	}
	for _, c := range result.Candidates {
		if c.ScreenID == "login" {
			t.Error("login should not appear among candidates")
		}
	}
}

func TestDetect_UnknownBelowFloor(t *testing.T) {
	driver := testDriver()
	driver.SetCurrent("mystery")

	det := New(driver, testStore(t), Config{})
	result := det.Detect(testApp, true)
	if !result.IsUnknown() {
		t.Fatalf("expected unknown, got %s", result.ScreenID)
	}
	if result.Error != "" {
		t.Errorf("unknown screen is not an error, got %q", result.Error)
	}
}

func TestDetect_LowScoreReportsCandidates(t *testing.T) {
	driver := testDriver()
	// One of three required: 0.33, below the 0.4 floor but scored.
	driver.AddScreen("weak", mock.Tree(mock.IDNode("com.example.shop:id/search_bar")))
	driver.SetCurrent("weak")

	det := New(driver, testStore(t), Config{})
	result := det.Detect(testApp, true)
	if !result.IsUnknown() {
		t.Fatalf("expected unknown, got %s", result.ScreenID)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].ScreenID != "search" {
		t.Errorf("expected search as strongest candidate, got %v", result.Candidates)
	}
	if result.Confidence <= 0 {
		t.Errorf("best score should be reported, got %v", result.Confidence)
	}
}

func TestDetect_NoSignaturesIsError(t *testing.T) {
	det := New(testDriver(), signature.NewStore(), Config{})
	result := det.Detect(testApp, true)
	if !result.IsUnknown() || result.Error == "" {
		t.Errorf("expected unknown with error, got %+v", result)
	}
}

func TestDetect_DriverUnavailable(t *testing.T) {
	driver := testDriver()
	driver.Unavailable = true

	det := New(driver, testStore(t), Config{})
	result := det.Detect(testApp, true)
	if !result.IsUnknown() || result.Error == "" {
		t.Errorf("expected unknown with error, got %+v", result)
	}
}

func TestElements_CacheWithinTTL(t *testing.T) {
	driver := testDriver()
	det := New(driver, testStore(t), Config{CacheTTL: time.Hour})

	if _, err := det.Elements(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := det.Elements(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.DumpCount != 1 {
		t.Errorf("expected 1 dump within TTL, got %d", driver.DumpCount)
	}

	if _, err := det.Elements(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.DumpCount != 2 {
		t.Errorf("force refresh should dump again, got %d", driver.DumpCount)
	}

	det.InvalidateCache()
	if _, err := det.Elements(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.DumpCount != 3 {
		t.Errorf("invalidate should drop the cache, got %d dumps", driver.DumpCount)
	}
}

func TestElements_CacheExpires(t *testing.T) {
	driver := testDriver()
	det := New(driver, testStore(t), Config{CacheTTL: time.Nanosecond})

	if _, err := det.Elements(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := det.Elements(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.DumpCount != 2 {
		t.Errorf("expected expired cache to dump again, got %d", driver.DumpCount)
	}
}

func TestStats_TracksUnknownRate(t *testing.T) {
	driver := testDriver()
	det := New(driver, testStore(t), Config{})

	det.Detect(testApp, true)
	driver.SetCurrent("mystery")
	det.Detect(testApp, true)

	stats := det.Stats()
	if stats.Detections != 2 {
		t.Errorf("expected 2 detections, got %d", stats.Detections)
	}
	if stats.UnknownCount != 1 {
		t.Errorf("expected 1 unknown, got %d", stats.UnknownCount)
	}
	if stats.UnknownRate != 0.5 {
		t.Errorf("expected unknown rate 0.5, got %v", stats.UnknownRate)
	}
}

func TestCheckPatterns(t *testing.T) {
	driver := mock.New("dialog")
	driver.AddScreen("dialog", mock.Tree(
		mock.IDNode("com.android.permissioncontroller:id/permission_allow_button"),
		mock.TextNode("Allow access?"),
	))

	det := New(driver, signature.NewStore(), Config{})
	matches, err := det.CheckPatterns([]PatternPair{
		{Name: "permission", Detect: "id:permission_allow_button", Dismiss: "id:permission_allow_button"},
		{Name: "crash", Detect: "text:Unfortunately"},
		{Name: "empty", Detect: ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Name != "permission" || matches[0].Dismiss == "" {
		t.Errorf("unexpected match: %+v", matches[0])
	}
	if driver.DumpCount != 1 {
		t.Errorf("pattern check should use a single dump, got %d", driver.DumpCount)
	}
}

func TestDumpForSignature(t *testing.T) {
	driver := testDriver()
	driver.SetCurrent("search")

	det := New(driver, testStore(t), Config{})
	dump, err := det.DumpForSignature()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dump.Identifiers) != 2 {
		t.Errorf("expected 2 id suffixes, got %v", dump.Identifiers)
	}
	if len(dump.Labels) != 1 || dump.Labels[0] != "Filters" {
		t.Errorf("unexpected labels: %v", dump.Labels)
	}
	if dump.TotalElements == 0 {
		t.Error("expected a non-empty element count")
	}
}
