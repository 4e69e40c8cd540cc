package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gnana997/uicontext/pkg/catalog"
)

const maxWidth = 80

// printDetailHuman prints a human-readable item summary.
func printDetailHuman(w io.Writer, d *catalog.Detail, examples *catalog.Examples) {
	header := fmt.Sprintf("%s  [%s", d.Name, d.Kind)
	if d.Category != "" {
		header += ", " + d.Category
	}
	fmt.Fprintln(w, header+"]")

	if d.Source.Path != "" {
		fmt.Fprintf(w, "  %s\n", d.Source.Path)
	}
	if d.Summary != "" {
		fmt.Fprintln(w)
		printWrapped(w, d.Summary, 0, maxWidth)
	}
	if d.Description != "" && d.Description != d.Summary {
		fmt.Fprintln(w)
		printWrapped(w, d.Description, 0, maxWidth)
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(w, "\nTags  %s\n", strings.Join(d.Tags, ", "))
	}

	fmt.Fprintln(w)
	deps := d.DependentTypes
	switch {
	case d.Props != nil:
		printPropsSection(w, "Props", d.Props.Fields)
		deps = d.Props.DependentTypes
	case d.Signature != nil:
		printSignature(w, d.Signature)
	case d.Kind == catalog.KindComponent:
		fmt.Fprintln(w, "Props  (none)")
	}

	if len(deps) > 0 {
		fmt.Fprintln(w)
		printDependentTypes(w, deps)
	}

	if d.Kind == catalog.KindComponent {
		fmt.Fprintln(w)
		if len(d.Stories) == 0 {
			fmt.Fprintln(w, "Stories  (none)")
		} else {
			names := make([]string, 0, len(d.Stories))
			for _, s := range d.Stories {
				names = append(names, s.Name)
			}
			fmt.Fprintln(w, "Stories")
			printWrapped(w, strings.Join(names, ", "), 2, maxWidth)
		}
	}

	if len(d.RelatedComponents) > 0 {
		fmt.Fprintf(w, "\nRelated  %s\n", strings.Join(d.RelatedComponents, ", "))
	}

	if examples != nil {
		fmt.Fprintln(w)
		printExamples(w, examples)
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, fields []catalog.PropField) {
	if len(fields) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	for _, f := range fields {
		if len(f.Name) > nameW {
			nameW = len(f.Name)
		}
		// Long unions wrap under the row instead of widening the table.
		if t := collapseSpace(f.Type); len(t) > typeW && nameW+len(t) < maxWidth-12 {
			typeW = len(t)
		}
	}

	sepLen := nameW + typeW + 9
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s\n", nameW, "NAME", typeW, "TYPE", "REQ")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	for _, f := range fields {
		req := "no"
		if f.Required {
			req = "yes"
		}
		deprecated := ""
		if f.Deprecated {
			deprecated = " [deprecated]"
		}
		typ := collapseSpace(f.Type)
		if len(typ) > typeW {
			fmt.Fprintf(w, "  %-*s  %-*s  %-3s%s\n", nameW, f.Name, typeW, "", req, deprecated)
			fmt.Fprintf(w, "  %s  type: %s\n", strings.Repeat(" ", nameW), wrapUnion(typ, nameW+10))
		} else {
			fmt.Fprintf(w, "  %-*s  %-*s  %-3s%s\n", nameW, f.Name, typeW, typ, req, deprecated)
		}
		if f.Description != "" {
			printWrapped(w, f.Description, nameW+4, maxWidth)
		}
	}
}

func printSignature(w io.Writer, sig *catalog.Signature) {
	fmt.Fprintln(w, "Signature")
	if sig.Raw != "" {
		for _, line := range strings.Split(sig.Raw, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	if len(sig.Parameters) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Parameters")
		nameW := 0
		for _, p := range sig.Parameters {
			if len(p.Name) > nameW {
				nameW = len(p.Name)
			}
		}
		for _, p := range sig.Parameters {
			opt := ""
			if p.Optional {
				opt = "  (optional)"
			}
			fmt.Fprintf(w, "  %-*s  %s%s\n", nameW, p.Name, p.Type, opt)
		}
	}
	if sig.ReturnType != "" {
		fmt.Fprintf(w, "\nReturns  %s\n", sig.ReturnType)
	}
}

func printDependentTypes(w io.Writer, deps map[string]catalog.DependentType) {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Dependent types")
	for _, name := range names {
		dt := deps[name]
		if dt.From != "" {
			fmt.Fprintf(w, "  %s  (%s from %q)\n", name, dt.Kind, dt.From)
			continue
		}
		fmt.Fprintf(w, "  %s  (%s)\n", name, dt.Kind)
		if dt.Text != "" {
			for _, line := range strings.Split(dt.Text, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

func printExamples(w io.Writer, ex *catalog.Examples) {
	if len(ex.Stories) == 0 {
		fmt.Fprintln(w, "Examples  (none)")
		return
	}
	fmt.Fprintln(w, "Examples")
	for _, s := range ex.Stories {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", s.Name)
		if s.FilePath != "" {
			fmt.Fprintf(w, "  %s\n", s.FilePath)
		}
		fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
		if s.Code == "" {
			fmt.Fprintln(w, "  (source not found)")
			continue
		}
		for _, line := range strings.Split(s.Code, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// collapseSpace puts a multi-line type on one line.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wrapUnion wraps a union type at its " | " separators when it exceeds
// maxWidth.
func wrapUnion(typ string, indent int) string {
	if indent+len(typ) <= maxWidth {
		return typ
	}
	parts := strings.Split(typ, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else if line == prefix {
			line += word
		} else {
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
