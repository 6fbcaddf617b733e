package filter

import (
	"context"
	"strings"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

var defaultCompiler = NewExprCompiler(WithCache(256))

func isEmpty(expression string) bool {
	return strings.TrimSpace(expression) == ""
}

// CompileFilter compiles an expression with the shared, cached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// ParseAndCreateFilter returns a predicate for expression. An empty
// expression matches every torrent.
func ParseAndCreateFilter(expression string) (func(qbittorrent.Torrent) bool, error) {
	if isEmpty(expression) {
		return func(qbittorrent.Torrent) bool { return true }, nil
	}

	filter, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	return filter.Evaluate, nil
}

// EvaluateFilters compiles and evaluates several named expressions at once
func EvaluateFilters(ctx context.Context, filters map[string]string, torrents []qbittorrent.Torrent) (map[string][]qbittorrent.Torrent, error) {
	m := NewManager(WithCompiler(defaultCompiler))
	if err := m.RegisterFilters(filters); err != nil {
		return nil, err
	}
	return m.EvaluateAll(ctx, torrents)
}
