package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// SourceCache hands out the bytes of source files, memory-mapping each file
// on first access. One generation run reads the same barrel and type modules
// many times over; the cache makes every read after the first free.
//
// Slices returned by Read stay valid until Close. Safe for concurrent use.
type SourceCache interface {
	// Read returns the file contents, loading them on first access.
	Read(path string) ([]byte, error)

	// Len returns the number of files currently held.
	Len() int

	// Stats returns cumulative counters.
	Stats() SourceCacheStats

	// Close unmaps every file. Slices handed out earlier become invalid.
	Close() error
}

// SourceCacheConfig controls SourceCache limits.
type SourceCacheConfig struct {
	// MaxFiles caps the number of cached files. Zero means unlimited.
	MaxFiles int

	// Logger receives mmap fallbacks and close summaries. Nil uses slog.Default().
	Logger *slog.Logger
}

// SourceCacheStats tracks cache activity.
type SourceCacheStats struct {
	Hits         int64
	Misses       int64
	MmapFailures int64
	Files        int
	Bytes        int64
}

// ErrSourceCacheFull is returned when MaxFiles is reached.
var ErrSourceCacheFull = errors.New("source cache full")

type mappedSource struct {
	data   mmap.MMap
	file   *os.File
	mapped bool
}

type sourceCache struct {
	cfg    SourceCacheConfig
	logger *slog.Logger

	mu    sync.RWMutex
	files map[string]*mappedSource

	statsMu sync.Mutex
	stats   SourceCacheStats
}

// NewSourceCache creates an empty cache.
func NewSourceCache(cfg SourceCacheConfig) SourceCache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &sourceCache{
		cfg:    cfg,
		logger: logger,
		files:  make(map[string]*mappedSource),
	}
}

func (c *sourceCache) Read(path string) ([]byte, error) {
	c.mu.RLock()
	if ms, ok := c.files[path]; ok {
		c.mu.RUnlock()
		c.count(func(s *SourceCacheStats) { s.Hits++ })
		return ms.data, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after taking the write lock.
	if ms, ok := c.files[path]; ok {
		c.count(func(s *SourceCacheStats) { s.Hits++ })
		return ms.data, nil
	}
	c.count(func(s *SourceCacheStats) { s.Misses++ })

	if c.cfg.MaxFiles > 0 && len(c.files) >= c.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d files", ErrSourceCacheFull, c.cfg.MaxFiles)
	}

	ms, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.files[path] = ms
	return ms.data, nil
}

// load maps the file read-only, falling back to a plain read when mmap is
// unavailable. Must be called with mu held.
func (c *sourceCache) load(path string) (*mappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if info.Size() == 0 {
		f.Close()
		return &mappedSource{data: mmap.MMap{}}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		c.logger.Debug("mmap failed, reading file", "path", path, "error", err)
		c.count(func(s *SourceCacheStats) { s.MmapFailures++ })
		f.Close()
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, fmt.Errorf("read %q: %w", path, rerr)
		}
		return &mappedSource{data: mmap.MMap(data)}, nil
	}
	return &mappedSource{data: m, file: f, mapped: true}, nil
}

func (c *sourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

func (c *sourceCache) Stats() SourceCacheStats {
	c.mu.RLock()
	files := len(c.files)
	var total int64
	for _, ms := range c.files {
		total += int64(len(ms.data))
	}
	c.mu.RUnlock()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	s := c.stats
	s.Files = files
	s.Bytes = total
	return s
}

func (c *sourceCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for path, ms := range c.files {
		if ms.mapped {
			if err := ms.data.Unmap(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
			}
		}
		if ms.file != nil {
			if err := ms.file.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", path, err))
			}
		}
	}
	c.files = make(map[string]*mappedSource)

	c.statsMu.Lock()
	c.logger.Debug("source cache closed",
		"hits", c.stats.Hits,
		"misses", c.stats.Misses,
		"mmap_failures", c.stats.MmapFailures)
	c.statsMu.Unlock()

	return errors.Join(errs...)
}

func (c *sourceCache) count(fn func(*SourceCacheStats)) {
	c.statsMu.Lock()
	fn(&c.stats)
	c.statsMu.Unlock()
}
