package pagelayout

import (
	"fmt"

	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/scorer"
)

// ScorerFromConfig builds the reading-order scorer described by cfg: a pool
// of HTTP replicas, behind a SQLite rank cache when CachePath is set. It
// returns a nil scorer when no BaseURL is configured. The returned close
// function must be called when the scorer is no longer used.
func ScorerFromConfig(cfg *config.Config) (layout.Scorer, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil || cfg.Scorer.BaseURL == "" {
		return nil, noop, nil
	}

	size := cfg.Scorer.PoolSize
	if size < 1 {
		size = 1
	}
	httpCfg := cfg.HTTPConfig()
	replicas := make([]layout.Scorer, size)
	for i := range replicas {
		replicas[i] = scorer.NewHTTPScorer(httpCfg)
	}

	pooled, err := scorer.NewPooled(replicas...)
	if err != nil {
		return nil, noop, err
	}
	if cfg.Scorer.CachePath == "" {
		return pooled, noop, nil
	}

	cache, err := scorer.OpenCache(cfg.Scorer.CachePath, pooled)
	if err != nil {
		return nil, noop, fmt.Errorf("opening rank cache: %w", err)
	}
	return cache, cache.Close, nil
}
