package scanner

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/resolver"
)

// ResolverFactory opens a resolver with its own module cache. The returned
// func releases the cache.
type ResolverFactory func() (*resolver.Resolver, func())

// Analyze gathers props, signature and stories of one export.
func Analyze(r *resolver.Resolver, e ExportEntry) Analysis {
	an := Analysis{Entry: e}
	if e.ModulePath == "" {
		return an
	}

	if e.Kind == catalog.KindComponent {
		if loc := r.LocateForExport(e.ModulePath, e.Local); loc != nil {
			props := r.Flatten(loc)
			fields := props.Fields
			if fields == nil {
				fields = []catalog.PropField{}
			}
			deps := r.PropsDependentTypes(props)
			an.Props = &catalog.PropsInfo{Fields: fields, Raw: props.Raw, DependentTypes: deps}
			an.Truncated = props.Truncated || hasTruncated(deps)
		}
		an.Stories = DiscoverStories(r, e.Name, e.SourcePath)
		return an
	}

	if sig, ok := r.Signature(e.ModulePath, e.Local); ok {
		an.Sig = sig.Signature
		an.SigDeps = sig.DependentTypes
		an.Truncated = an.Truncated || hasTruncated(sig.DependentTypes)
	}
	return an
}

func hasTruncated(deps map[string]catalog.DependentType) bool {
	for _, d := range deps {
		if d.Kind == catalog.DepTruncated {
			return true
		}
	}
	return false
}

// AnalyzeAll analyzes entries with up to workers goroutines. Each worker
// owns one resolver; results keep the order of entries. Cancelling ctx stops
// the run.
func AnalyzeAll(ctx context.Context, entries []ExportEntry, workers int, open ResolverFactory, logger *slog.Logger) ([]Analysis, error) {
	results := make([]Analysis, len(entries))
	if len(entries) == 0 {
		return results, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	if workers == 1 {
		r, release := open()
		defer release()
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = Analyze(r, e)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range entries {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r, release := open()
			defer release()
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = Analyze(r, entries[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("analysis complete", "entries", len(entries), "workers", workers)
	return results, nil
}
