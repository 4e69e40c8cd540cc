package catalog

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// NormalizeID turns an export name into its slug: a dash before every
// capital letter except the first, then lowercased. "AIOrb" becomes "a-i-orb".
func NormalizeID(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DenormalizeID reverses NormalizeID for overlay matching. Hooks keep a
// lowercase first segment.
func DenormalizeID(slug string, kind Kind) string {
	parts := strings.Split(slug, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 && kind == KindHook {
			b.WriteString(strings.ToLower(p))
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// ValidSlug reports whether s can address a detail file.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ItemID returns "<kind>:<slug>".
func ItemID(kind Kind, name string) string {
	return string(kind) + ":" + NormalizeID(name)
}

// SplitItemID splits "<kind>:<slug>". A bare slug is returned with an empty
// kind.
func SplitItemID(id string) (Kind, string) {
	if k, slug, ok := strings.Cut(id, ":"); ok {
		return Kind(k), slug
	}
	return "", id
}

// DetailFileName returns "<kind>__<slug>.json".
func DetailFileName(kind Kind, slug string) string {
	return string(kind) + "__" + slug + ".json"
}

// DetailsRef is the catalogue's pointer to an item's detail file, relative
// to the data directory.
func DetailsRef(kind Kind, name string) string {
	return ItemsDir + "/" + DetailFileName(kind, NormalizeID(name))
}

// HasMetadata reports whether an item carries a summary or keywords.
func (it Item) HasMetadata() bool {
	return it.Summary != "" || len(it.Keywords) > 0
}

// ComputeStats counts items per kind. Coverage is rounded to two decimals.
func ComputeStats(items []Item) Stats {
	var s Stats
	for _, it := range items {
		switch it.Kind {
		case KindComponent:
			s.TotalComponents++
		case KindHook:
			s.TotalHooks++
		case KindHelper:
			s.TotalHelpers++
		}
		if it.HasMetadata() {
			s.ItemsWithMetadata++
		}
	}
	s.TotalItems = s.TotalComponents + s.TotalHooks + s.TotalHelpers
	s.CoveragePercent = coverage(s.ItemsWithMetadata, s.TotalItems)
	return s
}

func coverage(with, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(with)/float64(total)*10000) / 100
}
