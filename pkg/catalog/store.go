package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultDetailCacheSize bounds the number of detail records kept in memory.
const DefaultDetailCacheSize = 256

// StoreConfig configures a Store.
type StoreConfig struct {
	// DataDir holds catalogue.json, index.json and items/.
	DataDir string
	// Root is the analysed project; story paths are relative to it.
	Root            string
	DetailCacheSize int
	Logger          *slog.Logger
}

// Store loads the generated artifacts once and serves them read-only.
//
// A Store is either uninitialized or ready. The first accessor performs the
// load under the mutex, so concurrent first calls share it. ClearCache
// returns the store to uninitialized.
type Store struct {
	config StoreConfig
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	snap   *snapshot

	details *lru.Cache[string, *Detail]
	group   singleflight.Group
}

// snapshot is immutable once built.
type snapshot struct {
	catalogue *Catalogue
	index     *UnifiedIndex

	byID       map[string]*Item
	byName     map[Kind]map[string]*Item // exact name
	byLower    map[Kind]map[string]*Item // lowercased name
	categories map[string]string         // component name -> category
	components map[string]*IndexComponent
}

// NewStore creates an uninitialized store.
func NewStore(config StoreConfig) (*Store, error) {
	if config.DetailCacheSize <= 0 {
		config.DetailCacheSize = DefaultDetailCacheSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.NewWithEvict(config.DetailCacheSize, func(key string, _ *Detail) {
		logger.Debug("detail evicted", "key", key)
	})
	if err != nil {
		return nil, err
	}
	return &Store{config: config, logger: logger, details: cache}, nil
}

// DataDir returns the artifact directory.
func (s *Store) DataDir() string { return s.config.DataDir }

// Root returns the analysed project root.
func (s *Store) Root() string { return s.config.Root }

// Ready reports whether the artifacts have been loaded.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ClearCache drops everything loaded so the next access reloads from disk.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.loaded = false
	s.snap = nil
	s.mu.Unlock()
	s.details.Purge()
}

func (s *Store) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.snap = s.load()
		s.loaded = true
	}
	return s.snap
}

// load never fails: a missing or malformed artifact is logged and treated as
// empty.
func (s *Store) load() *snapshot {
	snap := &snapshot{
		byID:       make(map[string]*Item),
		byName:     make(map[Kind]map[string]*Item),
		byLower:    make(map[Kind]map[string]*Item),
		categories: make(map[string]string),
		components: make(map[string]*IndexComponent),
	}
	for _, k := range Kinds {
		snap.byName[k] = make(map[string]*Item)
		snap.byLower[k] = make(map[string]*Item)
	}

	cat, err := LoadCatalogueFile(filepath.Join(s.config.DataDir, CatalogueFile))
	if err != nil {
		s.logArtifactError(CatalogueFile, err)
		cat = &Catalogue{}
	}
	snap.catalogue = cat
	for i := range cat.Items {
		it := &cat.Items[i]
		snap.byID[it.ID] = it
		if names, ok := snap.byName[it.Kind]; ok {
			names[it.Name] = it
			snap.byLower[it.Kind][strings.ToLower(it.Name)] = it
		}
	}

	idx, err := LoadIndexFile(filepath.Join(s.config.DataDir, IndexFile))
	if err != nil {
		s.logArtifactError(IndexFile, err)
		idx = &UnifiedIndex{}
	}
	snap.index = idx
	for i := range idx.Components {
		c := &idx.Components[i]
		snap.components[c.Name] = c
		snap.categories[c.Name] = c.Category
	}

	s.logger.Info("artifacts loaded",
		"dir", s.config.DataDir,
		"items", len(cat.Items),
		"components", len(idx.Components),
		"hooks", len(idx.Hooks),
		"helpers", len(idx.Helpers))
	return snap
}

func (s *Store) logArtifactError(name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("artifact missing", "file", name)
		return
	}
	s.logger.Error("artifact unreadable, treating as absent", "file", name, "error", err)
}

// Catalogue returns the loaded catalogue. It is never nil.
func (s *Store) Catalogue() *Catalogue {
	return s.snapshot().catalogue
}

// Index returns the loaded unified index. It is never nil.
func (s *Store) Index() *UnifiedIndex {
	return s.snapshot().index
}

// Item finds a catalogue item by kind and exact name, falling back to a
// case-insensitive match.
func (s *Store) Item(kind Kind, name string) (*Item, bool) {
	snap := s.snapshot()
	if it, ok := snap.byName[kind][name]; ok {
		return it, true
	}
	it, ok := snap.byLower[kind][strings.ToLower(name)]
	return it, ok
}

// Category returns a component's category from the unified index.
func (s *Store) Category(name string) string {
	return s.snapshot().categories[name]
}

// IndexComponent returns the unified-index row of a component.
func (s *Store) IndexComponent(name string) (*IndexComponent, bool) {
	c, ok := s.snapshot().components[name]
	return c, ok
}

// Detail loads one detail record. It returns nil when the record is absent
// or malformed. Concurrent loads of the same record share one read.
func (s *Store) Detail(kind Kind, id string) *Detail {
	if k, slug := SplitItemID(id); k != "" {
		if k != kind {
			return nil
		}
		id = slug
	}
	if !kind.Valid() || !ValidSlug(id) {
		return nil
	}
	key := string(kind) + "__" + id
	if d, ok := s.details.Get(key); ok {
		return d
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		if d, ok := s.details.Get(key); ok {
			return d, nil
		}
		path := filepath.Join(s.config.DataDir, ItemsDir, DetailFileName(kind, id))
		d, err := LoadDetailFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Error("detail unreadable, treating as absent", "path", path, "error", err)
			}
			return (*Detail)(nil), nil
		}
		s.details.Add(key, d)
		return d, nil
	})
	d, _ := v.(*Detail)
	return d
}

// DetailFor loads the detail record of a catalogue item.
func (s *Store) DetailFor(it *Item) *Detail {
	if it == nil {
		return nil
	}
	_, slug := SplitItemID(it.ID)
	return s.Detail(it.Kind, slug)
}

// CachedDetails reports how many detail records are in memory.
func (s *Store) CachedDetails() int {
	return s.details.Len()
}
