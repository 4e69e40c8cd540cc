// Package queries compiles and caches the tree-sitter queries used to
// inspect function bodies.
package queries

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uicontext/pkg/parser"
)

// QueryType selects a query.
type QueryType int

const (
	// QueryTypeJSX captures JSX elements. Not available for plain TypeScript,
	// whose grammar has no JSX nodes.
	QueryTypeJSX QueryType = iota
	// QueryTypeCalls captures the callee of every call expression.
	QueryTypeCalls
)

func (qt QueryType) String() string {
	switch qt {
	case QueryTypeJSX:
		return "jsx"
	case QueryTypeCalls:
		return "calls"
	default:
		return "unknown"
	}
}

const jsxQuery = `
[
  (jsx_element)
  (jsx_self_closing_element)
] @jsx.element
`

const callsQuery = `
(call_expression
  function: (_) @call.callee)
`

// ErrUnsupported is returned when a query does not exist for a grammar.
var ErrUnsupported = errors.New("query not supported for grammar")

type queryKey struct {
	lang  parser.Language
	isTSX bool
	qtype QueryType
}

// QueryManager compiles queries lazily, once per grammar.
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a query manager backed by pm's grammars.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns the compiled query for a grammar.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	key := queryKey{lang: lang, isTSX: isTSX && lang == parser.LanguageTypeScript, qtype: qtype}

	qm.mutex.RLock()
	query, ok := qm.cache[key]
	qm.mutex.RUnlock()
	if ok {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	if query, ok = qm.cache[key]; ok {
		return query, nil
	}

	src, err := queryString(key)
	if err != nil {
		return nil, err
	}
	langPtr, err := qm.parserManager.GetLanguagePointer(key.lang, key.isTSX)
	if err != nil {
		return nil, err
	}
	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), src)
	if qerr != nil {
		return nil, fmt.Errorf("compile %s query for %s: %s", qtype, lang, qerr.Message)
	}
	qm.cache[key] = query
	qm.logger.Debug("compiled query", "language", lang.String(), "tsx", key.isTSX, "type", qtype.String())
	return query, nil
}

func queryString(key queryKey) (string, error) {
	switch key.qtype {
	case QueryTypeJSX:
		if key.lang == parser.LanguageTypeScript && !key.isTSX {
			return "", fmt.Errorf("%w: jsx in .ts", ErrUnsupported)
		}
		return jsxQuery, nil
	case QueryTypeCalls:
		return callsQuery, nil
	default:
		return "", fmt.Errorf("unknown query type: %d", key.qtype)
	}
}

// Captures runs query over the subtree rooted at node and returns every
// capture in document order.
func (qm *QueryManager) Captures(node *ts.Node, query *ts.Query, source []byte) []QueryCapture {
	if node == nil || query == nil {
		return nil
	}
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	var out []QueryCapture
	matches := cursor.Matches(query, node, source)
	for m := matches.Next(); m != nil; m = matches.Next() {
		for _, c := range m.Captures {
			name := ""
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			n := c.Node
			out = append(out, QueryCapture{
				Name:      name,
				Kind:      n.Kind(),
				Text:      n.Utf8Text(source),
				StartByte: uint32(n.StartByte()),
				EndByte:   uint32(n.EndByte()),
			})
		}
	}
	return out
}

// Close frees every compiled query.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	for key, q := range qm.cache {
		q.Close()
		delete(qm.cache, key)
	}
	return nil
}

// QueryCapture is one captured node, copied out of the cursor so it can
// outlive it.
type QueryCapture struct {
	Name      string
	Kind      string
	Text      string
	StartByte uint32
	EndByte   uint32
}
