package catalog

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	suggestThreshold = 0.8
	maxSuggestions   = 3
)

// Suggest returns up to three item names of the given kind that are close to
// name by Jaro-Winkler similarity. An empty kind searches every kind.
func (q *QueryService) Suggest(name string, kind Kind) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	type scored struct {
		name  string
		score float32
	}
	var hits []scored
	seen := map[string]bool{}
	cat := q.store.Catalogue()
	for i := range cat.Items {
		it := &cat.Items[i]
		if kind != "" && it.Kind != kind {
			continue
		}
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		score, err := edlib.StringsSimilarity(needle, strings.ToLower(it.Name), edlib.JaroWinkler)
		if err != nil || score < suggestThreshold {
			continue
		}
		hits = append(hits, scored{name: it.Name, score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].name)
	}
	return out
}
