package filter

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the maximum number of concurrent goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the list size below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the torrents matching filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, torrents []qbittorrent.Torrent) ([]qbittorrent.Torrent, error) {
	if len(torrents) == 0 {
		return []qbittorrent.Torrent{}, nil
	}

	if len(torrents) < e.batchSize {
		return evaluateSequential(filter, torrents), nil
	}

	return e.evaluateConcurrent(ctx, filter, torrents)
}

// EvaluateBatch evaluates multiple filters against torrents concurrently
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, torrents []qbittorrent.Torrent) (map[string][]qbittorrent.Torrent, error) {
	results := make(map[string][]qbittorrent.Torrent, len(filters))
	if len(filters) == 0 || len(torrents) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	var mu sync.Mutex
	for name, filter := range filters {
		g.Go(func() error {
			matches, err := e.Evaluate(ctx, filter, torrents)
			if err != nil {
				return err
			}

			mu.Lock()
			results[name] = matches
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluateSequential(filter CompiledFilter, torrents []qbittorrent.Torrent) []qbittorrent.Torrent {
	matches := make([]qbittorrent.Torrent, 0, len(torrents)/4)
	for _, t := range torrents {
		if filter.Evaluate(t) {
			matches = append(matches, t)
		}
	}
	return matches
}

// evaluateConcurrent splits torrents into chunks and joins the per-chunk
// matches back in order
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, torrents []qbittorrent.Torrent) ([]qbittorrent.Torrent, error) {
	chunkSize := max(len(torrents)/e.workerCount, e.batchSize)
	chunks := make([][]qbittorrent.Torrent, (len(torrents)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(torrents))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks[i] = evaluateSequential(filter, torrents[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	matches := make([]qbittorrent.Torrent, 0, total)
	for _, c := range chunks {
		matches = append(matches, c...)
	}
	return matches, nil
}
