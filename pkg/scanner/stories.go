package scanner

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/extractor"
	"github.com/gnana997/uicontext/pkg/resolver"
)

// StoryID joins a component slug and a story slug: "button--with-icon".
func StoryID(component, story string) string {
	return catalog.NormalizeID(component) + "--" + catalog.NormalizeID(story)
}

// DiscoverStories finds the stories of a component declared in
// componentPath (root-relative): the named exports of the shared
// `_<Base>.stories.tsx` file, then one story per `stories/<Name>.story.tsx`
// not already listed.
func DiscoverStories(r *resolver.Resolver, componentName, componentPath string) []catalog.Story {
	if componentPath == "" {
		return nil
	}
	root := r.Paths().Root
	var out []catalog.Story
	seen := map[string]bool{}
	add := func(name, file string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, catalog.Story{ID: StoryID(componentName, name), Name: name, FilePath: file})
	}

	shared := catalog.SharedStoriesFile(componentPath)
	if mod, err := r.Module(filepath.Join(root, filepath.FromSlash(shared))); err == nil {
		for _, name := range storyExports(mod) {
			add(name, shared)
		}
	}

	dir := filepath.Join(root, filepath.FromSlash(path.Dir(componentPath)))
	files, err := DiscoverFiles(dir, storyPatterns)
	if err != nil {
		return out
	}
	for _, f := range files {
		base := filepath.Base(f)
		name := strings.TrimSuffix(strings.TrimSuffix(base, ".tsx"), ".jsx")
		name = strings.TrimSuffix(name, ".story")
		add(name, r.Paths().Rel(f))
	}
	return out
}

// storyExports lists the named value exports of a stories module. The
// default export is the story meta and is skipped.
func storyExports(mod *extractor.Module) []string {
	var names []string
	for _, exp := range mod.Exports {
		if exp.Kind != extractor.ExportLocal || exp.TypeOnly {
			continue
		}
		if exp.Name == "default" || exp.Name == "meta" {
			continue
		}
		names = append(names, exp.Name)
	}
	return names
}
