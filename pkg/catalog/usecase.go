package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/surgebase/porter2"
)

// DefaultUseCaseLimit is the result limit of SearchByUseCase.
const DefaultUseCaseLimit = 10

// uiPhrases are matched as whole terms before single words.
var uiPhrases = []string{
	"date picker", "date range", "time picker",
	"file upload", "file download", "drag and drop",
	"form validation", "form input", "text editor",
	"rich text", "social media", "user avatar",
	"action button", "toggle button", "search bar",
	"dropdown menu", "auto complete", "phone number",
	"credit card",
}

var stopWords = map[string]bool{
	"i": true, "need": true, "want": true, "show": true, "me": true,
	"for": true, "to": true, "a": true, "an": true, "the": true,
	"is": true, "are": true, "be": true, "of": true, "in": true,
	"on": true, "at": true, "with": true, "that": true, "this": true,
	"can": true, "do": true, "how": true, "and": true, "some": true,
}

var nonWord = regexp.MustCompile(`[^\w\s]+`)

// UseCaseMatch is one component matched by SearchByUseCase.
type UseCaseMatch struct {
	Name        string   `json:"name"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	MatchReason string   `json:"matchReason"`
	Relevance   float64  `json:"relevanceScore"`
}

// UseCaseResult is the answer of SearchByUseCase.
type UseCaseResult struct {
	Results     []UseCaseMatch `json:"results"`
	Suggestions []string       `json:"suggestions"`
}

// UseCaseTerm is an extracted query term. Match is what item text is tested
// against: the phrase itself, or the stem of a single word.
type UseCaseTerm struct {
	Text  string
	Match string
}

// UseCaseTerms extracts the known phrases and the meaningful words of a
// natural-language request. Words are stemmed for matching.
func UseCaseTerms(useCase string) []UseCaseTerm {
	lower := strings.ToLower(useCase)
	var terms []UseCaseTerm
	seen := map[string]bool{}

	for _, p := range uiPhrases {
		if strings.Contains(lower, p) && !seen[p] {
			seen[p] = true
			terms = append(terms, UseCaseTerm{Text: p, Match: p})
		}
	}
	for _, w := range strings.Fields(nonWord.ReplaceAllString(lower, " ")) {
		if len(w) <= 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, UseCaseTerm{Text: w, Match: porter2.Stem(w)})
	}
	return terms
}

// SearchByUseCase ranks components against a natural-language request.
// Each matching term adds name 10, keyword 5, tag 3 or summary 2; the total
// is divided by 10 and capped at 1.
func (q *QueryService) SearchByUseCase(useCase string, limit int) UseCaseResult {
	if limit <= 0 {
		limit = DefaultUseCaseLimit
	}
	terms := UseCaseTerms(useCase)
	if len(terms) == 0 {
		return UseCaseResult{
			Results:     []UseCaseMatch{},
			Suggestions: []string{`Try being more specific, e.g., "date picker", "file upload", "form validation"`},
		}
	}

	results := make([]UseCaseMatch, 0)
	cat := q.store.Catalogue()
	for i := range cat.Items {
		it := &cat.Items[i]
		if it.Kind != KindComponent {
			continue
		}
		score, reasons := scoreUseCase(it, terms)
		if score <= 0 {
			continue
		}
		results = append(results, UseCaseMatch{
			Name:        it.Name,
			Summary:     it.Summary,
			Tags:        it.Tags,
			MatchReason: strings.Join(reasons, "; "),
			Relevance:   relevance(score, searchDivisor),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return UseCaseResult{Results: results, Suggestions: tagSuggestions(results)}
}

func scoreUseCase(it *Item, terms []UseCaseTerm) (int, []string) {
	score := 0
	var reasons []string
	add := func(weight int, label string, hits []string) {
		if len(hits) == 0 {
			return
		}
		score += weight * len(hits)
		reasons = append(reasons, label+": "+strings.Join(hits, ", "))
	}

	name := strings.ToLower(it.Name)
	summary := strings.ToLower(it.Summary)
	var nameHits, keywordHits, tagHits, summaryHits []string
	for _, t := range terms {
		if strings.Contains(name, t.Match) {
			nameHits = append(nameHits, t.Text)
		}
		if overlapsAny(it.Keywords, t) {
			keywordHits = append(keywordHits, t.Text)
		}
		if overlapsAny(it.Tags, t) {
			tagHits = append(tagHits, t.Text)
		}
		if strings.Contains(summary, t.Match) {
			summaryHits = append(summaryHits, t.Text)
		}
	}
	add(weightName, "Name matches", nameHits)
	add(weightKeyword, "Keywords match", keywordHits)
	add(weightTag, "Tags match", tagHits)
	add(weightSummary, "Summary matches", summaryHits)
	return score, reasons
}

// overlapsAny reports whether some value contains the term, or the term
// contains the value.
func overlapsAny(values []string, t UseCaseTerm) bool {
	for _, v := range values {
		v = strings.ToLower(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, t.Match) || strings.Contains(t.Text, v) {
			return true
		}
	}
	return false
}

// tagSuggestions offers up to five tags of the top three results.
func tagSuggestions(results []UseCaseMatch) []string {
	out := make([]string, 0)
	seen := map[string]bool{}
	for i := 0; i < len(results) && i < 3; i++ {
		for _, tag := range results[i].Tags {
			if seen[tag] || len(out) == 5 {
				continue
			}
			seen[tag] = true
			out = append(out, fmt.Sprintf("Try searching for: %q", tag))
		}
	}
	return out
}
