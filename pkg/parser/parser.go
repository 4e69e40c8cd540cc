// Package parser owns the tree-sitter grammars and a pool of parsers per
// grammar, so analysis workers can parse in parallel.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey identifies a grammar: TypeScript and TSX are distinct grammars.
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager hands out pooled tree-sitter parsers.
//
// Pools are created lazily per grammar. Callers own returned trees and must
// Close them; the manager itself must be closed when analysis ends.
type ParserManager struct {
	pools    map[poolKey]*parserPool
	mutex    sync.RWMutex
	logger   *slog.Logger
	poolSize int

	parses int
}

// NewParserManager creates a manager whose pools are sized by
// util.GetOptimalPoolSize.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithSize(logger, 0)
}

// NewParserManagerWithSize creates a manager with a fixed pool size. Zero
// selects the default.
func NewParserManagerWithSize(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[poolKey]*parserPool),
		logger:   logger,
		poolSize: getPoolSize(poolSize),
	}
}

// Parse parses source with the given grammar. A tree containing syntax errors
// is still returned; partial trees are useful for extraction.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.parses++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("pool for %s: %w", lang, err)
	}
	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree")
	}
	return tree, nil
}

// ParseFile picks the grammar from the path's extension.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	tree, err := pm.Parse(source, lang, IsTSXFile(filePath))
	if err != nil {
		return nil, err
	}
	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "file", filePath)
	}
	return tree, nil
}

// Close releases every pooled parser. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for key, pool := range pm.pools {
		pool.close()
		delete(pm.pools, key)
	}
	pm.logger.Debug("parser manager closed", "parses", pm.parses)
	return nil
}

func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	// Only TypeScript has a TSX variant.
	key := poolKey{lang: lang, isTSX: isTSX && lang == LanguageTypeScript}

	pm.mutex.RLock()
	pool, ok := pm.pools[key]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	langPtr, err := pm.GetLanguagePointer(key.lang, key.isTSX)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(key.lang, langPtr, key.isTSX, pm.poolSize, pm.logger)
	pm.pools[key] = pool
	return pool, nil
}

// GetLanguagePointer returns the grammar pointer used to build parsers and
// compile queries.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// GetStats returns parser usage counters.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.getCreatedCount()
	}
	return ParserStats{ParsersCreated: created, ParsesCalled: pm.parses, Grammars: len(pm.pools)}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
	Grammars       int
}
