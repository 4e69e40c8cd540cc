package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/uicontext/pkg/extractor"
	"github.com/gnana997/uicontext/pkg/parser"
	"github.com/gnana997/uicontext/pkg/parser/queries"
	"github.com/gnana997/uicontext/pkg/resolver"
	"github.com/gnana997/uicontext/pkg/util"
)

// Scanner orchestrates a generation run.
type Scanner struct {
	pm      *parser.ParserManager
	qm      *queries.QueryManager
	ext     *extractor.Extractor
	sources util.SourceCache
	log     *slog.Logger
}

// NewScanner creates a scanner with all required dependencies.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	pm := parser.NewParserManager(logger)
	return &Scanner{
		pm:      pm,
		qm:      queries.NewQueryManager(pm, logger),
		ext:     extractor.NewExtractor(pm, logger),
		sources: util.NewSourceCache(util.SourceCacheConfig{Logger: logger}),
		log:     logger,
	}
}

// Close releases parsers, compiled queries and mapped sources.
func (s *Scanner) Close() error {
	s.qm.Close()
	s.sources.Close()
	return s.pm.Close()
}

// Run executes classify, overlay, analyze, build and write, in that order.
// Only an unreadable entry module, a cancelled ctx or a failed catalogue
// write abort the run.
func (s *Scanner) Run(ctx context.Context, cfg Config) (*Result, error) {
	totalStart := time.Now()
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	entry := underRoot(root, cfg.Entry)
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("entry module: %w", err)
	}
	outDir := underRoot(root, cfg.OutDir)

	paths := resolver.NewPathResolver(root, cfg.Aliases)
	opts := resolver.Options{MaxDepth: cfg.MaxDepth, Logger: s.log}
	open := func() (*resolver.Resolver, func()) {
		cache := resolver.NewCache(s.ext, s.sources, s.log)
		return resolver.New(cache, paths, opts), cache.Close
	}

	var stats Stats

	// Step 1: classify
	fmt.Fprintf(progress, "[1/5] Classifying exports of %s\n", paths.Rel(entry))
	start := time.Now()
	r, release := open()
	cls, err := NewClassifier(r, s.qm, s.log).Classify(ctx, entry)
	release()
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	stats.Components = len(cls.Components)
	stats.Hooks = len(cls.Hooks)
	stats.Helpers = len(cls.Helpers)
	stats.Skipped = cls.Skipped
	stats.Exports = stats.Components + stats.Hooks + stats.Helpers + stats.Skipped
	stats.ClassifyTimeMs = time.Since(start).Milliseconds()
	s.log.Info("classification complete",
		"components", stats.Components, "hooks", stats.Hooks, "helpers", stats.Helpers,
		"skipped", stats.Skipped, "ms", stats.ClassifyTimeMs)
	fmt.Fprintf(progress, "      %d components, %d hooks, %d helpers (%d skipped)\n",
		stats.Components, stats.Hooks, stats.Helpers, stats.Skipped)

	// Step 2: overlays
	fmt.Fprintln(progress, "[2/5] Loading metadata overlays")
	var overlays *Overlays
	if cfg.MetaDir != "" {
		overlays, err = LoadOverlays(underRoot(root, cfg.MetaDir), s.log)
		if err != nil {
			return nil, err
		}
	}
	stats.Overlays = overlays.Len()
	fmt.Fprintf(progress, "      %d overlays\n", stats.Overlays)

	// Step 3: analyze
	workers := util.WorkerCount(cfg.Workers)
	fmt.Fprintf(progress, "[3/5] Analyzing %d exports (%d workers)\n", len(cls.All), workers)
	start = time.Now()
	analyses, err := AnalyzeAll(ctx, cls.Entries(), workers, open, s.log)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	for _, an := range analyses {
		if an.Props != nil {
			stats.WithProps++
		}
		if len(an.Stories) > 0 {
			stats.WithStories++
		}
		if an.Truncated {
			stats.Truncated++
		}
	}
	stats.AnalyzeTimeMs = time.Since(start).Milliseconds()
	s.log.Info("analysis complete",
		"withProps", stats.WithProps, "withStories", stats.WithStories,
		"truncated", stats.Truncated, "ms", stats.AnalyzeTimeMs)

	// Step 4: build
	fmt.Fprintln(progress, "[4/5] Building catalogue")
	art := BuildArtifacts(analyses, overlays, now().UTC().Format(time.RFC3339))
	for _, verr := range art.Catalogue.Validate() {
		s.log.Warn("catalogue check", "error", verr)
	}
	fmt.Fprintf(progress, "      %d items, %.2f%% with metadata\n",
		art.Catalogue.Stats.TotalItems, art.Catalogue.Stats.CoveragePercent)

	// Step 5: write
	fmt.Fprintf(progress, "[5/5] Writing artifacts to %s\n", outDir)
	start = time.Now()
	sum, err := WriteArtifacts(outDir, art, s.log)
	stats.Written, stats.Unchanged, stats.Failed = sum.Written, sum.Unchanged, sum.Failed
	stats.WriteTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}
	s.log.Info("write complete",
		"written", sum.Written, "unchanged", sum.Unchanged, "failed", sum.Failed, "ms", stats.WriteTimeMs)

	stats.TotalTimeMs = time.Since(totalStart).Milliseconds()
	fmt.Fprintf(progress, "Done: %d passed, %d failed (%d written, %d unchanged) in %dms\n",
		sum.Written+sum.Unchanged, sum.Failed, sum.Written, sum.Unchanged, stats.TotalTimeMs)

	return &Result{Artifacts: *art, Stats: stats}, nil
}

func underRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
