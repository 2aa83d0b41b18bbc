package pagelayout

import (
	"context"
	"sync"

	"github.com/tsawler/pagelayout/internal/logger"
	"github.com/tsawler/pagelayout/model"
)

// PageResult is the outcome of extracting one page of a batch
type PageResult struct {
	// Index is the page position in the batch
	Index int

	Result   *model.ExtractedResult
	Warnings []Warning
	Err      error
}

// ExtractPages runs Extract on every page using at most workers goroutines
// and returns one PageResult per page, in input order. A failing page does
// not stop the others. Pages sharing a scorer should be given a pooled one
// (see ScorerFromConfig) so replicas are spread across workers.
//
// Example:
//
//	pages := []*pagelayout.Extractor{
//	    pagelayout.Open("p1.png").WithOCR(engine),
//	    pagelayout.Open("p2.png").WithOCR(engine),
//	}
//	for _, r := range pagelayout.ExtractPages(ctx, pages, 4) {
//	    if r.Err != nil {
//	        log.Printf("page %d: %v", r.Index, r.Err)
//	    }
//	}
func ExtractPages(ctx context.Context, pages []*Extractor, workers int) []PageResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	results := make([]PageResult, len(pages))
	jobs := make(chan int, len(pages))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobs {
				results[i] = extractPage(ctx, id, i, pages[i])
			}
		}(w)
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func extractPage(ctx context.Context, worker, index int, page *Extractor) PageResult {
	result := PageResult{Index: index}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	logger.Debug("worker %d extracting page %d", worker, index)
	result.Result, result.Warnings, result.Err = page.Extract(ctx)
	if result.Err != nil {
		logger.Warn("page %d: %v", index, result.Err)
	}
	return result
}
