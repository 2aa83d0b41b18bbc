// Package scorer provides implementations of [layout.Scorer], the external
// reading-order model consulted by the neural ordering tier.
//
//   - [HTTPScorer] calls a model served over HTTP, throttled by a token bucket
//   - [Pooled] spreads calls over a fixed set of scorer replicas
//   - [Cache] remembers rank lists in a SQLite database
//
// The adapters compose:
//
//	remote := scorer.NewHTTPScorer(scorer.DefaultHTTPConfig())
//	cache, err := scorer.OpenCache("ranks.db", remote)
//	engine := layout.NewReadingOrderEngine(cache)
package scorer
