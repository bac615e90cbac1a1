package signature

import (
	"math"
	"testing"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

func compile(t *testing.T, sig *ScreenSignature) *ScreenSignature {
	t.Helper()
	if err := sig.Compile(); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return sig
}

func TestScore_UniqueMatchIsFullConfidence(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:    "app",
		ScreenID: "home",
		Unique:   []string{"id:home_banner"},
		Required: []string{"id:missing_a", "id:missing_b"},
	})

	score, matched := sig.Score(core.NewElementSet("id:home_banner"))
	if score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", score)
	}
	if len(matched) != 1 || matched[0] != "unique:id:home_banner" {
		t.Errorf("unexpected matched list: %v", matched)
	}
}

func TestScore_ForbiddenOverridesUnique(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:     "app",
		ScreenID:  "feed",
		Unique:    []string{"id:feed_list"},
		Forbidden: []string{"id:login_form"},
	})

	score, matched := sig.Score(core.NewElementSet("id:feed_list", "id:login_form"))
	if score != 0 {
		t.Fatalf("expected score 0 with forbidden element present, got %v", score)
	}
	if matched != nil {
		t.Errorf("expected no matched selectors, got %v", matched)
	}
}

func TestScore_RequiredRatio(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:    "app",
		ScreenID: "settings",
		Required: []string{"id:a", "id:b", "id:c", "id:d"},
	})

	tests := []struct {
		elements core.ElementSet
		want     float64
	}{
		{core.NewElementSet("id:a", "id:b", "id:c", "id:d"), 1.0},
		{core.NewElementSet("id:a", "id:b", "id:c"), 0.75},
		{core.NewElementSet("id:a", "id:b"), 0.5},
		{core.NewElementSet("id:a"), 0.25},
		{core.NewElementSet("id:other"), 0},
	}
	for i, tt := range tests {
		score, _ := sig.Score(tt.elements)
		if math.Abs(score-tt.want) > 1e-9 {
			t.Errorf("case %d: expected %v, got %v", i, tt.want, score)
		}
	}
}

func TestScore_OptionalBoostCappedAtOne(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:    "app",
		ScreenID: "profile",
		Required: []string{"id:a", "id:b"},
		Optional: []string{"id:x", "id:y"},
	})

	// Half the required, half the optional: 0.5 + 0.1*0.5 = 0.55.
	score, _ := sig.Score(core.NewElementSet("id:a", "id:x"))
	if math.Abs(score-0.55) > 1e-9 {
		t.Errorf("expected 0.55, got %v", score)
	}

	// Everything: 1.0 + 0.1 capped at 1.0.
	score, _ = sig.Score(core.NewElementSet("id:a", "id:b", "id:x", "id:y"))
	if score != 1.0 {
		t.Errorf("expected cap at 1.0, got %v", score)
	}
}

func TestScore_OptionalAloneScoresZero(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:    "app",
		ScreenID: "popup",
		Required: []string{"id:a"},
		Optional: []string{"id:x"},
	})

	score, _ := sig.Score(core.NewElementSet("id:x"))
	if score != 0 {
		t.Errorf("optional matches without required should score 0, got %v", score)
	}
}

func TestCompile_Validation(t *testing.T) {
	tests := []struct {
		name string
		sig  *ScreenSignature
	}{
		{"missing screen id", &ScreenSignature{AppID: "app", Required: []string{"id:a"}}},
		{"missing app id", &ScreenSignature{ScreenID: "home", Required: []string{"id:a"}}},
		{"no selectors", &ScreenSignature{AppID: "app", ScreenID: "home", Optional: []string{"id:x"}}},
	}
	for _, tt := range tests {
		if err := tt.sig.Compile(); err == nil {
			t.Errorf("%s: expected compile error", tt.name)
		}
	}
}

func TestCompile_DefaultPriority(t *testing.T) {
	sig := compile(t, &ScreenSignature{
		AppID:    "app",
		ScreenID: "home",
		Unique:   []string{"id:home"},
	})
	if sig.Priority != DefaultPriority {
		t.Errorf("expected default priority %d, got %d", DefaultPriority, sig.Priority)
	}
}
