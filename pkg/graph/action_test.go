package graph

import (
	"testing"
	"time"
)

func TestAction_Describe(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{PressBack{}, "press back"},
		{ClickText{Text: "Next"}, "click text: Next"},
		{ClickLabel{Label: "Search"}, "click label: Search"},
		{ClickSelector{Selector: "//android.widget.Button"}, "click: //android.widget.Button"},
		{Swipe{Direction: "up"}, "swipe up"},
		{Wait{Seconds: 1.5}, "wait 1.5s"},
		{LaunchApp{AppID: "com.example.shop"}, "launch com.example.shop"},
		{PressBack{BaseAction: BaseAction{Description: "leave checkout"}}, "leave checkout"},
	}
	for _, tt := range tests {
		if got := tt.action.Describe(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.action.Type(), tt.want, got)
		}
	}
}

func TestWait_Duration(t *testing.T) {
	w := Wait{Seconds: 0.5}
	if w.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", w.Duration())
	}
}

func TestBaseAction_WaitAfter(t *testing.T) {
	a := ClickText{BaseAction: BaseAction{WaitAfterMs: 200}, Text: "Next"}
	if a.WaitAfter() != 200*time.Millisecond {
		t.Errorf("expected 200ms, got %v", a.WaitAfter())
	}
	if (PressBack{}).WaitAfter() != 0 {
		t.Error("expected zero wait by default")
	}
}
