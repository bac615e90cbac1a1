package signature

import (
	"sort"
	"sync"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// SharedAppID is the reserved group for system-level overlay signatures
// (permission dialogs, crash dialogs) merged into every app's collection.
const SharedAppID = "system"

// Store holds screen signatures grouped by application. Collections are
// immutable once registered; Register replaces an app's collection as a
// whole, so concurrent readers always observe a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	apps     map[string][]*ScreenSignature
	byScreen map[string]map[string]*ScreenSignature
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		apps:     make(map[string][]*ScreenSignature),
		byScreen: make(map[string]map[string]*ScreenSignature),
	}
}

// Register compiles and installs the signatures for an app, replacing any
// previous collection. Signatures are sorted descending by priority; ties
// keep their declaration order.
func (st *Store) Register(appID string, sigs []*ScreenSignature) error {
	if appID == "" {
		return core.ErrInvalidConfig.WithMessage("empty app id")
	}
	collection := make([]*ScreenSignature, 0, len(sigs))
	index := make(map[string]*ScreenSignature, len(sigs))
	for _, sig := range sigs {
		if sig.AppID == "" {
			sig.AppID = appID
		}
		if err := sig.Compile(); err != nil {
			return err
		}
		if _, dup := index[sig.ScreenID]; dup {
			return core.ErrInvalidConfig.WithMessage("duplicate screen id " + sig.FullID())
		}
		collection = append(collection, sig)
		index[sig.ScreenID] = sig
	}
	sortByPriority(collection)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.apps[appID] = collection
	st.byScreen[appID] = index
	return nil
}

func sortByPriority(sigs []*ScreenSignature) {
	sort.SliceStable(sigs, func(i, j int) bool {
		return sigs[i].Priority > sigs[j].Priority
	})
}

// Signatures returns the app's signatures, optionally concatenated with
// the shared system overlays, re-sorted by priority. The returned slice
// is a copy; signatures themselves are shared and must not be mutated.
func (st *Store) Signatures(appID string, includeShared bool) []*ScreenSignature {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sigs := append([]*ScreenSignature(nil), st.apps[appID]...)
	if includeShared && appID != SharedAppID {
		if shared := st.apps[SharedAppID]; len(shared) > 0 {
			sigs = append(sigs, shared...)
			sortByPriority(sigs)
		}
	}
	return sigs
}

// Signature looks up a single signature by app and screen id.
func (st *Store) Signature(appID, screenID string) (*ScreenSignature, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sig, ok := st.byScreen[appID][screenID]
	if !ok && appID != SharedAppID {
		sig, ok = st.byScreen[SharedAppID][screenID]
	}
	return sig, ok
}

// ScreenIDs returns every registered screen id for an app, in priority
// order.
func (st *Store) ScreenIDs(appID string) []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]string, 0, len(st.apps[appID]))
	for _, sig := range st.apps[appID] {
		out = append(out, sig.ScreenID)
	}
	return out
}

// SafeStates returns the screen ids marked as safe states for an app, in
// priority order.
func (st *Store) SafeStates(appID string) []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []string
	for _, sig := range st.apps[appID] {
		if sig.SafeState {
			out = append(out, sig.ScreenID)
		}
	}
	return out
}

// Apps lists all registered app ids, sorted.
func (st *Store) Apps() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]string, 0, len(st.apps))
	for app := range st.apps {
		out = append(out, app)
	}
	sort.Strings(out)
	return out
}
