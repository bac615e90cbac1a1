package engine

import (
	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/graph"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// EdgeSummary is one outgoing edge in a graph view.
type EdgeSummary struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Cost        float64  `json:"cost"`
	Reliability float64  `json:"reliability"`
	Actions     []string `json:"actions"`
}

// GraphSummary is a flattened view of an app's navigation graph for
// display and export.
type GraphSummary struct {
	AppID   string        `json:"appId"`
	Screens []string      `json:"screens"`
	Edges   []EdgeSummary `json:"edges"`
}

// ScreenSummary describes one known screen: its signature metadata plus
// where the graph can take it.
type ScreenSummary struct {
	ScreenID       string   `json:"screenId"`
	Description    string   `json:"description,omitempty"`
	Priority       int      `json:"priority"`
	SafeState      bool     `json:"safeState"`
	RecoveryAction string   `json:"recoveryAction,omitempty"`
	ReachableFrom  bool     `json:"inGraph"`
	NavigatesTo    []string `json:"navigatesTo,omitempty"`
}

// NavigationGraph summarizes the loaded graph for an app. With fromScreen
// set, only edges leaving that screen are included.
func (e *Engine) NavigationGraph(appID, fromScreen string) (*GraphSummary, error) {
	g := e.Graph(appID)
	if g == nil {
		return nil, core.ErrInvalidConfig.WithMessage("no navigation graph loaded for app " + appID)
	}
	summary := &GraphSummary{
		AppID:   g.AppID(),
		Screens: g.Screens(e.store.ScreenIDs(appID)...),
	}
	sources := g.Sources()
	if fromScreen != "" {
		sources = []string{fromScreen}
	}
	for _, from := range sources {
		for _, edge := range g.EdgesFrom(from) {
			summary.Edges = append(summary.Edges, edgeSummary(from, edge))
		}
	}
	return summary, nil
}

func edgeSummary(from string, edge graph.Edge) EdgeSummary {
	actions := make([]string, 0, len(edge.Actions))
	for _, a := range edge.Actions {
		actions = append(actions, a.Describe())
	}
	return EdgeSummary{
		From:        from,
		To:          edge.To,
		Cost:        edge.Cost,
		Reliability: edge.Reliability,
		Actions:     actions,
	}
}

// Screens lists every known screen of an app with signature metadata and
// graph connectivity.
func (e *Engine) Screens(appID string) []ScreenSummary {
	g := e.Graph(appID)
	var out []ScreenSummary
	for _, sig := range e.store.Signatures(appID, false) {
		out = append(out, e.screenSummary(g, sig))
	}
	return out
}

// ScreenInfo describes a single screen of an app.
func (e *Engine) ScreenInfo(appID, screenID string) (*ScreenSummary, error) {
	sig, ok := e.store.Signature(appID, screenID)
	if !ok {
		return nil, core.ErrUnknownScreen.WithMessage("no signature for " + appID + "/" + screenID)
	}
	summary := e.screenSummary(e.Graph(appID), sig)
	return &summary, nil
}

func (e *Engine) screenSummary(g *graph.Graph, sig *signature.ScreenSignature) ScreenSummary {
	summary := ScreenSummary{
		ScreenID:       sig.ScreenID,
		Description:    sig.Description,
		Priority:       sig.Priority,
		SafeState:      sig.SafeState,
		RecoveryAction: sig.RecoveryAction,
	}
	if g != nil {
		for _, edge := range g.EdgesFrom(sig.ScreenID) {
			summary.NavigatesTo = append(summary.NavigatesTo, edge.To)
		}
		summary.ReachableFrom = len(summary.NavigatesTo) > 0 || g.HasInbound(sig.ScreenID)
	}
	return summary
}
