package resolver

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/uicontext/pkg/extractor"
	"github.com/gnana997/uicontext/pkg/util"
)

// Cache holds the modules opened during one analysis run. It is not safe for
// concurrent use: parallel analysis gives each worker its own Cache, all
// sharing one util.SourceCache.
type Cache struct {
	ext     *extractor.Extractor
	sources util.SourceCache
	logger  *slog.Logger

	modules map[string]*extractor.Module
	failed  map[string]error
}

// NewCache creates an empty module cache.
func NewCache(ext *extractor.Extractor, sources util.SourceCache, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		ext:     ext,
		sources: sources,
		logger:  logger,
		modules: make(map[string]*extractor.Module),
		failed:  make(map[string]error),
	}
}

// Module returns the parsed module at path, parsing it on first use. A
// failure is remembered so broken files are reported once.
func (c *Cache) Module(path string) (*extractor.Module, error) {
	if m, ok := c.modules[path]; ok {
		return m, nil
	}
	if err, ok := c.failed[path]; ok {
		return nil, err
	}

	src, err := c.sources.Read(path)
	if err != nil {
		c.failed[path] = err
		c.logger.Debug("cannot read module", "path", path, "error", err)
		return nil, err
	}
	m, err := c.ext.Extract(path, src)
	if err != nil {
		err = fmt.Errorf("extract %s: %w", path, err)
		c.failed[path] = err
		return nil, err
	}
	c.modules[path] = m
	return m, nil
}

// Len returns the number of parsed modules.
func (c *Cache) Len() int { return len(c.modules) }

// Close frees every parse tree. Source bytes belong to the SourceCache.
func (c *Cache) Close() {
	for path, m := range c.modules {
		m.Close()
		delete(c.modules, path)
	}
	c.failed = make(map[string]error)
}
