package detector

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/logger"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// Config tunes detection behavior. The zero value gets sensible defaults.
type Config struct {
	// MinConfidence is the floor below which a screen is reported unknown.
	MinConfidence float64
	// ConfidentThreshold is the higher bar for Result.Confident. Kept
	// independent of MinConfidence on purpose.
	ConfidentThreshold float64
	// CacheTTL bounds how long one UI dump stays valid.
	CacheTTL time.Duration
	// MaxCandidates caps the reported runner-up list.
	MaxCandidates int
}

// Defaults for Config.
const (
	DefaultMinConfidence      = 0.4
	DefaultConfidentThreshold = 0.8
	DefaultCacheTTL           = 500 * time.Millisecond
	DefaultMaxCandidates      = 3
)

func (c Config) withDefaults() Config {
	if c.MinConfidence == 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.ConfidentThreshold == 0 {
		c.ConfidentThreshold = DefaultConfidentThreshold
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.MaxCandidates == 0 {
		c.MaxCandidates = DefaultMaxCandidates
	}
	return c
}

// Detector classifies the current screen of one device. It dumps the UI
// once per detection (modulo the cache), normalizes it, scores every
// registered signature, and returns the best match with confidence.
//
// A Detector is safe for concurrent use; the dump cache is mutex-guarded
// so a force-refresh never exposes a half-updated entry.
type Detector struct {
	driver core.Driver
	store  *signature.Store
	cfg    Config

	cacheMu    sync.Mutex
	cached     core.ElementSet
	cacheTaken time.Time

	statsMu      sync.Mutex
	detections   int
	totalTime    time.Duration
	unknownCount int
}

// New creates a Detector over a driver and signature store.
func New(driver core.Driver, store *signature.Store, cfg Config) *Detector {
	return &Detector{
		driver: driver,
		store:  store,
		cfg:    cfg.withDefaults(),
	}
}

// Elements returns the normalized element set for the current screen,
// reusing a dump younger than the cache TTL unless forceRefresh is set.
func (d *Detector) Elements(forceRefresh bool) (core.ElementSet, error) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	if !forceRefresh && d.cached != nil && time.Since(d.cacheTaken) < d.cfg.CacheTTL {
		return d.cached, nil
	}

	tree, err := d.driver.DumpHierarchy()
	if err != nil {
		return nil, core.ErrDriverUnavailable.WithCause(err)
	}
	d.cached = Normalize(tree)
	d.cacheTaken = time.Now()
	return d.cached, nil
}

// InvalidateCache drops the cached dump.
func (d *Detector) InvalidateCache() {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.cached = nil
	d.cacheTaken = time.Time{}
}

type scoredSignature struct {
	sig     *signature.ScreenSignature
	score   float64
	matched []string
}

// Detect classifies the current screen against the app's signatures.
// Every signature is scored; priority only breaks ties. Detection never
// fails on an unidentified screen: it returns an "unknown" result with
// the strongest candidates instead.
func (d *Detector) Detect(appID string, forceRefresh bool) *Result {
	start := time.Now()

	elements, err := d.Elements(forceRefresh)
	if err != nil {
		d.record(time.Since(start), true)
		res := &Result{
			AppID:         appID,
			ScreenID:      UnknownScreenID,
			DetectionTime: time.Since(start),
			Error:         err.Error(),
		}
		var execErr *core.ExecutionError
		if errors.As(err, &execErr) {
			res.ErrorCode = execErr.Code
		}
		return res
	}

	sigs := d.store.Signatures(appID, true)
	if len(sigs) == 0 {
		d.record(time.Since(start), true)
		return &Result{
			AppID:         appID,
			ScreenID:      UnknownScreenID,
			DetectionTime: time.Since(start),
			Error:         core.ErrNoSignatures.WithMessage("no signatures registered for app: " + appID).Error(),
			ErrorCode:     core.ErrNoSignatures.Code,
		}
	}

	// Score all signatures; the strongest constellation wins regardless of
	// iteration order.
	scored := make([]scoredSignature, 0, len(sigs))
	for _, sig := range sigs {
		score, matched := sig.Score(elements)
		if score > 0 {
			scored = append(scored, scoredSignature{sig: sig, score: score, matched: matched})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].sig.Priority > scored[j].sig.Priority
	})

	elapsed := time.Since(start)

	if len(scored) == 0 {
		d.record(elapsed, true)
		d.logUnknown(appID, elements)
		return &Result{
			AppID:         appID,
			ScreenID:      UnknownScreenID,
			DetectionTime: elapsed,
		}
	}

	candidates := make([]Candidate, 0, d.cfg.MaxCandidates)
	for _, s := range scored {
		if len(candidates) == d.cfg.MaxCandidates {
			break
		}
		candidates = append(candidates, Candidate{ScreenID: s.sig.ScreenID, Score: s.score})
	}

	winner := scored[0]
	if len(scored) > 1 && winner.score-scored[1].score < 0.1 {
		logger.Debug("close match: %s=%.2f vs %s=%.2f",
			winner.sig.ScreenID, winner.score, scored[1].sig.ScreenID, scored[1].score)
	}

	if winner.score < d.cfg.MinConfidence {
		d.record(elapsed, true)
		d.logUnknown(appID, elements)
		return &Result{
			AppID:         appID,
			ScreenID:      UnknownScreenID,
			Confidence:    winner.score,
			DetectionTime: elapsed,
			Candidates:    candidates,
		}
	}

	d.record(elapsed, false)
	return &Result{
		AppID:           winner.sig.AppID,
		ScreenID:        winner.sig.ScreenID,
		Confidence:      winner.score,
		Confident:       winner.score >= d.cfg.ConfidentThreshold,
		DetectionTime:   elapsed,
		MatchedElements: winner.matched,
		Candidates:      candidates,
		Description:     winner.sig.Description,
		SafeState:       winner.sig.SafeState,
		RecoveryAction:  winner.sig.RecoveryAction,
	}
}

// logUnknown logs the most useful tokens of an unidentified screen to help
// signature authoring.
func (d *Detector) logUnknown(appID string, elements core.ElementSet) {
	ids := elements.WithPrefix("id:")
	labels := elements.WithPrefix("label:")
	texts := elements.WithPrefix("text:")
	logger.Warn("unknown screen for %s: ids=%v labels=%v texts=%v",
		appID, head(ids, 5), head(labels, 5), head(texts, 5))
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
