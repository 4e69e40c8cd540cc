package catalog

import (
	"sort"
	"strings"
)

// Search modes.
const (
	ModeName     = "name"
	ModeKeyword  = "keyword"
	ModeSemantic = "semantic"
	ModeAll      = "all"
)

// SearchModes lists the accepted search modes.
var SearchModes = []string{ModeName, ModeKeyword, ModeSemantic, ModeAll}

// Relationship types for Related.
const (
	RelSimilar      = "similar"
	RelSameCategory = "same-category"
	RelSameTags     = "same-tags"
	RelAll          = "all"
)

// RelationshipTypes lists the accepted relationship types.
var RelationshipTypes = []string{RelSimilar, RelSameCategory, RelSameTags, RelAll}

// Defaults for limits.
const (
	DefaultSearchLimit  = 20
	DefaultRelatedLimit = 10
	DetailsRelatedLimit = 5
)

// Score weights.
const (
	weightName        = 10
	weightKeyword     = 5
	weightTag         = 3
	weightSummary     = 2
	weightDescription = 1

	weightSameCategory = 10
	weightSharedTag    = 5
	weightSharedKey    = 3

	searchDivisor  = 10.0
	relatedDivisor = 20.0
)

// SearchOptions are the inputs of Search.
type SearchOptions struct {
	Query    string
	Mode     string
	Tags     []string
	Category string
	Kind     Kind
	Limit    int
}

// SearchResult is one scored catalogue match.
type SearchResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Summary     string   `json:"summary,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	Path        string   `json:"componentPath,omitempty"`
	StoryCount  int      `json:"storyCount"`
	MatchReason string   `json:"matchReason"`
	Relevance   float64  `json:"relevanceScore"`
}

// RelatedItem is one entry of a Related result.
type RelatedItem struct {
	Name    string  `json:"name"`
	Summary string  `json:"summary,omitempty"`
	Reason  string  `json:"relationshipReason"`
	Score   float64 `json:"similarityScore"`
}

// RelatedResult lists the items related to a reference component.
type RelatedResult struct {
	Component string        `json:"component"`
	Related   []RelatedItem `json:"related"`
}

// ComponentDetails is a component's detail record plus related items.
type ComponentDetails struct {
	*Detail
	Related []RelatedItem `json:"related,omitempty"`
}

// PropsView is the props section of a component.
type PropsView struct {
	ComponentName  string                   `json:"componentName"`
	Fields         []PropField              `json:"fields"`
	Raw            string                   `json:"raw,omitempty"`
	DependentTypes map[string]DependentType `json:"dependentTypes"`
}

// FunctionMatch is a hook or helper search hit.
type FunctionMatch struct {
	Name     string `json:"name"`
	FilePath string `json:"filePath,omitempty"`
}

// QueryService answers read-only queries over a Store.
type QueryService struct {
	store *Store
}

// NewQueryService creates a QueryService on top of store.
func NewQueryService(store *Store) *QueryService {
	return &QueryService{store: store}
}

// Store returns the backing store.
func (q *QueryService) Store() *Store {
	return q.store
}

func modeIncludes(mode string, accepted ...string) bool {
	for _, a := range accepted {
		if mode == a {
			return true
		}
	}
	return false
}

func relevance(score int, divisor float64) float64 {
	r := float64(score) / divisor
	if r > 1 {
		return 1
	}
	return r
}

// Search scores every catalogue item against the query. Filters exclude
// items outright and never contribute to the score. Results keep catalogue
// order on ties.
func (q *QueryService) Search(opts SearchOptions) []SearchResult {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	results := make([]SearchResult, 0)
	if query == "" {
		return results
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeAll
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	cat := q.store.Catalogue()
	for i := range cat.Items {
		it := &cat.Items[i]
		if opts.Kind != "" && it.Kind != opts.Kind {
			continue
		}
		if !hasAllTags(it.Tags, opts.Tags) {
			continue
		}
		category := q.itemCategory(it)
		if opts.Category != "" && !strings.EqualFold(category, opts.Category) {
			continue
		}

		score := 0
		var reasons []string

		if modeIncludes(mode, ModeName, ModeAll) && strings.Contains(strings.ToLower(it.Name), query) {
			score += weightName
			reasons = append(reasons, "Matched name")
		}
		if modeIncludes(mode, ModeKeyword, ModeSemantic, ModeAll) {
			if matched := containing(it.Keywords, query); len(matched) > 0 {
				score += weightKeyword * len(matched)
				reasons = append(reasons, "Matched keywords: "+strings.Join(matched, ", "))
			}
		}
		if modeIncludes(mode, ModeSemantic, ModeAll) {
			if matched := containing(it.Tags, query); len(matched) > 0 {
				score += weightTag * len(matched)
				reasons = append(reasons, "Matched tags: "+strings.Join(matched, ", "))
			}
			summaryHit := strings.Contains(strings.ToLower(it.Summary), query)
			if summaryHit {
				score += weightSummary
				reasons = append(reasons, "Matched summary")
			} else if d := q.store.DetailFor(it); d != nil && strings.Contains(strings.ToLower(d.Description), query) {
				score += weightDescription
				reasons = append(reasons, "Matched description")
			}
		}

		if score <= 0 {
			continue
		}
		res := SearchResult{
			ID:          it.ID,
			Name:        it.Name,
			Kind:        it.Kind,
			Summary:     it.Summary,
			Keywords:    it.Keywords,
			Tags:        it.Tags,
			Category:    category,
			Path:        it.Source.Path,
			MatchReason: strings.Join(reasons, "; "),
			Relevance:   relevance(score, searchDivisor),
		}
		if c, ok := q.store.IndexComponent(it.Name); ok && it.Kind == KindComponent {
			res.StoryCount = c.StoryCount
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (q *QueryService) itemCategory(it *Item) string {
	if it.Kind != KindComponent {
		return ""
	}
	return q.store.Category(it.Name)
}

// containing returns the values that contain the lowercase query.
func containing(values []string, query string) []string {
	var out []string
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), query) {
			out = append(out, v)
		}
	}
	return out
}

// hasAllTags reports whether every filter tag is a substring of some item tag.
func hasAllTags(itemTags, filter []string) bool {
	for _, f := range filter {
		f = strings.ToLower(f)
		found := false
		for _, t := range itemTags {
			if strings.Contains(strings.ToLower(t), f) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Related scores every other component by shared category, tags and
// keywords. Scores are divided by 20 and capped at 1. It returns nil when
// the reference component is unknown.
func (q *QueryService) Related(name, relationshipType string, limit int) *RelatedResult {
	ref, ok := q.store.Item(KindComponent, name)
	if !ok {
		return nil
	}
	if relationshipType == "" {
		relationshipType = RelAll
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	refCategory := q.store.Category(ref.Name)

	related := make([]RelatedItem, 0)
	cat := q.store.Catalogue()
	for i := range cat.Items {
		target := &cat.Items[i]
		if target.Kind != KindComponent || target.Name == ref.Name {
			continue
		}
		score, reasons := similarity(ref, target, refCategory, q.store.Category(target.Name), relationshipType)
		if score <= 0 {
			continue
		}
		related = append(related, RelatedItem{
			Name:    target.Name,
			Summary: target.Summary,
			Reason:  strings.Join(reasons, "; "),
			Score:   relevance(score, relatedDivisor),
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return &RelatedResult{Component: ref.Name, Related: related}
}

func similarity(ref, target *Item, refCategory, targetCategory, relType string) (int, []string) {
	score := 0
	var reasons []string

	if modeIncludes(relType, RelSameCategory, RelAll) && refCategory != "" && strings.EqualFold(refCategory, targetCategory) {
		score += weightSameCategory
		reasons = append(reasons, "Same category: "+refCategory)
	}
	if modeIncludes(relType, RelSameTags, RelSimilar, RelAll) {
		if shared := sharedValues(ref.Tags, target.Tags); len(shared) > 0 {
			score += weightSharedTag * len(shared)
			reasons = append(reasons, "Shared tags: "+strings.Join(shared, ", "))
		}
	}
	if modeIncludes(relType, RelSimilar, RelAll) {
		if shared := sharedValues(ref.Keywords, target.Keywords); len(shared) > 0 {
			score += weightSharedKey * len(shared)
			reasons = append(reasons, "Shared keywords: "+strings.Join(shared, ", "))
		}
	}
	return score, reasons
}

// sharedValues returns the lowercased values of a that also appear in b.
func sharedValues(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[strings.ToLower(v)] = true
	}
	var out []string
	for _, v := range a {
		if l := strings.ToLower(v); set[l] {
			out = append(out, l)
		}
	}
	return out
}

// Detail is a keyed lookup. It returns nil when absent.
func (q *QueryService) Detail(kind Kind, id string) *Detail {
	return q.store.Detail(kind, id)
}

// ComponentDetails returns a component's detail record, optionally with up
// to five related components. A component listed in the catalogue without a
// detail file gets a minimal record built from the catalogue and index.
func (q *QueryService) ComponentDetails(name string, includeRelated bool) *ComponentDetails {
	it, ok := q.store.Item(KindComponent, name)
	if !ok {
		return nil
	}
	d := q.store.DetailFor(it)
	if d == nil {
		d = q.fallbackDetail(it)
	}
	out := &ComponentDetails{Detail: d}
	if includeRelated {
		if rel := q.Related(it.Name, RelAll, DetailsRelatedLimit); rel != nil {
			out.Related = rel.Related
		}
	}
	return out
}

func (q *QueryService) fallbackDetail(it *Item) *Detail {
	d := &Detail{
		ID:          it.ID,
		Kind:        it.Kind,
		Name:        it.Name,
		DisplayName: it.Name,
		Summary:     it.Summary,
		Keywords:    it.Keywords,
		Tags:        it.Tags,
		Source:      it.Source,
	}
	if c, ok := q.store.IndexComponent(it.Name); ok {
		d.Category = c.Category
		d.StoryCount = c.StoryCount
		d.HasStorybook = c.HasStorybook
	}
	return d
}

// ComponentProps returns the props of a component, or nil when the component
// is unknown or has no props record.
func (q *QueryService) ComponentProps(name string) *PropsView {
	it, ok := q.store.Item(KindComponent, name)
	if !ok {
		return nil
	}
	d := q.store.DetailFor(it)
	if d == nil || d.Props == nil {
		return nil
	}
	deps := d.Props.DependentTypes
	if deps == nil {
		deps = map[string]DependentType{}
	}
	return &PropsView{
		ComponentName:  d.Name,
		Fields:         d.Props.Fields,
		Raw:            d.Props.Raw,
		DependentTypes: deps,
	}
}

// Hook returns the detail record of a hook by name.
func (q *QueryService) Hook(name string) *Detail {
	return q.functionDetail(KindHook, name)
}

// Helper returns the detail record of a helper by name.
func (q *QueryService) Helper(name string) *Detail {
	return q.functionDetail(KindHelper, name)
}

func (q *QueryService) functionDetail(kind Kind, name string) *Detail {
	it, ok := q.store.Item(kind, name)
	if !ok {
		return nil
	}
	return q.store.DetailFor(it)
}

// SearchHooks matches hook names case-insensitively.
func (q *QueryService) SearchHooks(query string) []FunctionMatch {
	return searchFunctions(q.store.Index().Hooks, query)
}

// SearchHelpers matches helper names case-insensitively.
func (q *QueryService) SearchHelpers(query string) []FunctionMatch {
	return searchFunctions(q.store.Index().Helpers, query)
}

func searchFunctions(rows []IndexFunction, query string) []FunctionMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]FunctionMatch, 0)
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), query) {
			out = append(out, FunctionMatch{Name: r.Name, FilePath: r.FilePath})
		}
	}
	return out
}
