package catalog

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Examples holds the story snippets of one component.
type Examples struct {
	ComponentName string         `json:"componentName"`
	Stories       []StoryExample `json:"stories"`
}

// StoryExample is one story and, when found, its source text.
type StoryExample struct {
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Code     string `json:"code,omitempty"`
}

// SharedStoriesFile returns the shared stories file of a component file:
// "src/core/Foo/Foo.tsx" gives "src/core/Foo/_Foo.stories.tsx".
func SharedStoriesFile(componentPath string) string {
	dir, file := path.Split(componentPath)
	base := strings.TrimSuffix(file, path.Ext(file))
	return dir + "_" + base + ".stories.tsx"
}

// StoryFile returns the individual story file for a story name.
func StoryFile(componentPath, storyName string) string {
	return path.Join(path.Dir(componentPath), "stories", storyName+".story.tsx")
}

// Example returns the story snippets of a component. With storyName set only
// that story is returned. It returns nil when the component is unknown; a
// story whose source cannot be found has no Code.
func (q *QueryService) Example(name, storyName string) *Examples {
	it, ok := q.store.Item(KindComponent, name)
	if !ok {
		return nil
	}
	d := q.store.DetailFor(it)
	componentPath := it.Source.Path
	var stories []Story
	if d != nil {
		stories = d.Stories
		if d.Source.Path != "" {
			componentPath = d.Source.Path
		}
	}

	if storyName != "" {
		var picked []Story
		for _, s := range stories {
			if s.Name == storyName {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			picked = []Story{{Name: storyName}}
		}
		stories = picked
	}

	out := &Examples{ComponentName: it.Name, Stories: make([]StoryExample, 0, len(stories))}
	files := map[string]string{}
	for _, s := range stories {
		ex := StoryExample{Name: s.Name, ID: s.ID}
		for _, candidate := range q.storyCandidates(componentPath, s) {
			content, ok := files[candidate]
			if !ok {
				content = q.readProjectFile(candidate)
				files[candidate] = content
			}
			if content == "" {
				continue
			}
			if code, found := ExtractStoryCode(content, s.Name); found {
				ex.Code = code
				ex.FilePath = candidate
				break
			}
		}
		out.Stories = append(out.Stories, ex)
	}
	return out
}

// storyCandidates lists the files that may hold a story, individual file
// first.
func (q *QueryService) storyCandidates(componentPath string, s Story) []string {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if componentPath != "" {
		add(StoryFile(componentPath, s.Name))
	}
	add(s.FilePath)
	if componentPath != "" {
		add(SharedStoriesFile(componentPath))
	}
	return out
}

func (q *QueryService) readProjectFile(rel string) string {
	p := filepath.FromSlash(rel)
	if !filepath.IsAbs(p) {
		p = filepath.Join(q.store.Root(), p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// ExtractStoryCode returns the source of `export const <name> = ...` in
// content, from the export keyword to the brace matching the first `{` after
// `=`. That brace may open an object or an arrow function body; braces inside
// parentheses, strings and comments are not counted. When the statement has
// no such brace it is returned up to its `;`.
func ExtractStoryCode(content, name string) (string, bool) {
	re, err := regexp.Compile(`export\s+(?:const|let)\s+` + regexp.QuoteMeta(name) + `\b[^=]*=`)
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return "", false
	}
	start := loc[0]

	open, end := initializerBrace(content, loc[1])
	if open < 0 {
		return strings.TrimSpace(content[start:end]), true
	}

	closing, ok := matchBrace(content, open)
	if !ok {
		return "", false
	}
	return content[start : closing+1], true
}

// initializerBrace scans the initializer starting at i. It returns the
// index of the first `{` outside parentheses, or -1 and the offset just past
// the end of the statement: its `;`, the next export or the end of s.
func initializerBrace(s string, i int) (open, end int) {
	parens := 0
	for ; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'', '`':
			i = skipString(s, i, c)
		case '(', '[':
			parens++
		case ')', ']':
			if parens > 0 {
				parens--
			}
		case '{':
			if parens == 0 {
				return i, -1
			}
		case ';':
			if parens == 0 {
				return -1, i + 1
			}
		case '\n':
			if parens == 0 && strings.HasPrefix(strings.TrimLeft(s[i:], " \t\r\n"), "export ") {
				return -1, i
			}
		}
	}
	return -1, len(s)
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'', '`':
			i = skipString(s, i, c)
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
					i += nl
				} else {
					i = len(s)
				}
			} else if i+1 < len(s) && s[i+1] == '*' {
				if end := strings.Index(s[i+2:], "*/"); end >= 0 {
					i += end + 3
				} else {
					i = len(s)
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipString returns the index of the closing quote of the string starting
// at i.
func skipString(s string, i int, quote byte) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(s)
}
