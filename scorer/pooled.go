package scorer

import (
	"context"

	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/pool"
)

// Pooled shares a fixed set of scorer replicas between concurrent pages.
// Each call holds one replica exclusively.
type Pooled struct {
	pool *pool.Pool[layout.Scorer]
}

// NewPooled creates a pooled scorer over the given replicas
func NewPooled(replicas ...layout.Scorer) (*Pooled, error) {
	p, err := pool.New(replicas...)
	if err != nil {
		return nil, err
	}
	return &Pooled{pool: p}, nil
}

// Score implements layout.Scorer
func (p *Pooled) Score(ctx context.Context, boxes []layout.Box) ([]int, error) {
	var ranks []int
	err := p.pool.Do(func(s layout.Scorer) error {
		var err error
		ranks, err = s.Score(ctx, boxes)
		return err
	})
	return ranks, err
}
