package filter

import (
	"context"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

// Filter defines the basic interface for torrent filters
type Filter interface {
	// Evaluate checks if a torrent matches the filter criteria
	Evaluate(torrent qbittorrent.Torrent) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the filter expression as compiled
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against torrents
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, torrents []qbittorrent.Torrent) ([]qbittorrent.Torrent, error)
}

// BatchEvaluator evaluates multiple filters concurrently
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, torrents []qbittorrent.Torrent) (map[string][]qbittorrent.Torrent, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
