package core

import (
	"testing"
)

func TestElementSet_WithPrefix(t *testing.T) {
	s := NewElementSet("id:zeta", "id:alpha", "text:alpha", "label:x")

	ids := s.WithPrefix("id:")
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Errorf("expected sorted stripped ids, got %v", ids)
	}
	if got := s.WithPrefix("class:"); len(got) != 0 {
		t.Errorf("expected no class tokens, got %v", got)
	}
}

func TestElementSet_ContainsFold(t *testing.T) {
	s := NewElementSet("text:Reel by StudioName")

	if !s.ContainsFold("reel BY") {
		t.Error("substring match should be case-insensitive")
	}
	if s.ContainsFold("missing") {
		t.Error("unexpected match")
	}
}

func TestElementSet_AddIgnoresEmpty(t *testing.T) {
	s := NewElementSet()
	s.Add("")
	s.Add("id:x")
	if s.Len() != 1 || !s.Has("id:x") {
		t.Errorf("unexpected set: %v", s)
	}
}
