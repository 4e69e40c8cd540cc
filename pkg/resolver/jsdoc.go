package resolver

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// leadingDoc returns the comment directly above the child at index idx of
// body, skipping separators. A preceding member stops the search.
func leadingDoc(body *ts.Node, idx uint, source []byte) (string, bool) {
	for i := int(idx) - 1; i >= 0; i-- {
		c := body.Child(uint(i))
		if c == nil {
			break
		}
		switch c.Kind() {
		case "comment":
			return parseJSDoc(c.Utf8Text(source))
		case ";", ",":
			continue
		default:
			return "", false
		}
	}
	return "", false
}

// parseJSDoc returns the description of a doc comment and whether it carries
// @deprecated. Other block tags are dropped; description lines are joined
// with newlines.
func parseJSDoc(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)

	if strings.HasPrefix(comment, "//") {
		text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
		deprecated := strings.Contains(text, "@deprecated")
		if deprecated {
			text = strings.TrimSpace(strings.Replace(text, "@deprecated", "", 1))
		}
		return text, deprecated
	}
	if !strings.HasPrefix(comment, "/*") {
		return "", false
	}

	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimPrefix(comment, "/*")
	comment = strings.TrimSuffix(comment, "*/")

	var (
		parts      []string
		deprecated bool
		inTag      bool
	)
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "@deprecated"):
			deprecated = true
			inTag = false
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "@deprecated")); rest != "" {
				parts = append(parts, rest)
			}
		case strings.HasPrefix(line, "@"):
			// @default, @example and friends, including their continuation lines.
			inTag = true
		case !inTag:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n"), deprecated
}
