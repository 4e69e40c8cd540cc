package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/gnana997/uicontext/pkg/catalog"
	mcpserver "github.com/gnana997/uicontext/pkg/mcp"
	"github.com/gnana997/uicontext/pkg/mcplog"
	"github.com/gnana997/uicontext/pkg/scanner"
)

// Version is overridden at link time.
var Version = "0.1.0-dev"

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Artifact directory (default .uicontext/data)",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "uicontext",
		Usage:                  "Component-library context for AI assistants",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default <root>/.uicontext/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Library root directory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"scan"},
				Usage:   "Analyze the library and write the catalogue artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "entry", Aliases: []string{"e"}, Usage: "Barrel module (default src/index.ts)"},
					dataFlag(),
					&cli.StringFlag{Name: "meta", Usage: "Metadata overlay directory (default src/exports-meta)"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Analysis workers (1 runs sequentially)"},
					&cli.IntFlag{Name: "max-depth", Usage: "Import and type-reference depth limit"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress progress output"},
					jsonFlag(),
				},
				Action: generateCommand,
			},
			{
				Name:   "validate",
				Usage:  "Check generated artifacts for consistency",
				Flags:  []cli.Flag{dataFlag(), jsonFlag()},
				Action: validateCommand,
			},
			{
				Name:  "serve",
				Usage: "Start the MCP server on stdio",
				Flags: []cli.Flag{
					dataFlag(),
					&cli.StringFlag{Name: "mcp-log", Usage: "Append tool calls as JSONL to this file"},
				},
				Action: serveCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Search the catalogue",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					dataFlag(),
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "name, keyword, semantic or all", Value: catalog.ModeAll},
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "component, hook or helper"},
					&cli.StringFlag{Name: "category", Usage: "core or common"},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Require a tag (repeatable)"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results", Value: catalog.DefaultSearchLimit},
					&cli.BoolFlag{Name: "use-case", Aliases: []string{"u"}, Usage: "Treat the query as a natural-language use case"},
					jsonFlag(),
				},
				Action: searchCommand,
			},
			{
				Name:      "inspect",
				Aliases:   []string{"i"},
				Usage:     "Show an item's props, signature and stories",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					dataFlag(),
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "component, hook or helper", Value: string(catalog.KindComponent)},
					&cli.BoolFlag{Name: "examples", Aliases: []string{"x"}, Usage: "Include story source"},
					jsonFlag(),
				},
				Action: inspectCommand,
			},
			{
				Name:      "log-stats",
				Usage:     "Summarize an MCP call log",
				ArgsUsage: "[path]",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    logStatsCommand,
			},
			{
				Name:  "version",
				Usage: "Print version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "uicontext %s\n", Version)
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func generateCommand(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	logger := s.newLogger(c.App.ErrWriter)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := s.scanConfig()
	if !c.Bool("quiet") && !c.Bool("json") {
		cfg.Progress = c.App.Writer
	}

	sc := scanner.NewScanner(logger)
	defer sc.Close()

	res, err := sc.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, res.Stats)
	}
	if res.Stats.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d artifacts failed to write", res.Stats.Failed), 1)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	report := catalog.ValidateArtifacts(s.path(s.OutDir))
	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, report); err != nil {
			return err
		}
	} else {
		printReport(c.App.Writer, report)
	}
	if !report.OK() {
		return cli.Exit(fmt.Sprintf("validation failed with %d errors", len(report.Errors)), 1)
	}
	return nil
}

func printReport(w io.Writer, r *catalog.Report) {
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error    %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning  %s\n", warn)
	}
	status := "ok"
	if !r.OK() {
		status = "FAILED"
	}
	fmt.Fprintf(w, "%s: %d items, %d details, %d errors, %d warnings\n",
		status, r.Items, r.Details, len(r.Errors), len(r.Warnings))
}

// openQuery loads the artifacts for the read-only commands.
func openQuery(c *cli.Context, s *settings) (*catalog.QueryService, error) {
	logger := s.newLogger(c.App.ErrWriter)
	store, err := catalog.NewStore(s.storeConfig(logger))
	if err != nil {
		return nil, err
	}
	return catalog.NewQueryService(store), nil
}

func serveCommand(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	qs, err := openQuery(c, s)
	if err != nil {
		return err
	}

	callLog, err := mcplog.NewLogger(s.path(s.MCPLog))
	if err != nil {
		return err
	}
	if callLog != nil {
		defer callLog.Close()
	}

	mcpserver.Version = Version
	srv := mcpserver.NewServer(qs, callLog)
	if err := srv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: uicontext search <query>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	qs, err := openQuery(c, s)
	if err != nil {
		return err
	}

	if c.Bool("use-case") {
		res := qs.SearchByUseCase(query, c.Int("limit"))
		if c.Bool("json") {
			return writeJSON(c.App.Writer, res)
		}
		printUseCaseResults(c.App.Writer, res)
		return nil
	}

	kind := catalog.Kind(c.String("kind"))
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	results := qs.Search(catalog.SearchOptions{
		Query:    query,
		Mode:     c.String("mode"),
		Tags:     c.StringSlice("tag"),
		Category: c.String("category"),
		Kind:     kind,
		Limit:    c.Int("limit"),
	})
	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	printSearchResults(c.App.Writer, results)
	return nil
}

func printSearchResults(w io.Writer, results []catalog.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tKIND\tNAME\tSUMMARY")
	for _, r := range results {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\n", r.Relevance, r.Kind, r.Name, r.Summary)
	}
	tw.Flush()
}

func printUseCaseResults(w io.Writer, res catalog.UseCaseResult) {
	if len(res.Results) == 0 {
		fmt.Fprintln(w, "No matches.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tNAME\tREASON")
		for _, r := range res.Results {
			fmt.Fprintf(tw, "%.2f\t%s\t%s\n", r.Relevance, r.Name, r.MatchReason)
		}
		tw.Flush()
	}
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, "  %s\n", s)
	}
}

func inspectCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: uicontext inspect <name>")
	}
	name := c.Args().First()
	kind := catalog.Kind(c.String("kind"))
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}

	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	qs, err := openQuery(c, s)
	if err != nil {
		return err
	}

	var d *catalog.Detail
	switch kind {
	case catalog.KindComponent:
		if cd := qs.ComponentDetails(name, false); cd != nil {
			d = cd.Detail
		}
	case catalog.KindHook:
		d = qs.Hook(name)
	case catalog.KindHelper:
		d = qs.Helper(name)
	}
	if d == nil {
		msg := fmt.Sprintf("%s %q not found", kind, name)
		if sugg := qs.Suggest(name, kind); len(sugg) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(sugg, ", "))
		}
		return cli.Exit(msg, 1)
	}

	var examples *catalog.Examples
	if c.Bool("examples") && kind == catalog.KindComponent {
		examples = qs.Example(d.Name, "")
	}

	if c.Bool("json") {
		if examples != nil {
			return writeJSON(c.App.Writer, struct {
				*catalog.Detail
				Examples []catalog.StoryExample `json:"examples"`
			}{d, examples.Stories})
		}
		return writeJSON(c.App.Writer, d)
	}
	printDetailHuman(c.App.Writer, d, examples)
	return nil
}

func logStatsCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		s, err := loadSettings(c)
		if err != nil {
			return err
		}
		path = s.path(pick(s.MCPLog, mcplog.DefaultPath))
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open call log: %w", err)
	}
	defer f.Close()

	summaries, skipped, err := mcplog.Summarize(f)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, summaries)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TOOL\tCALLS\tMISSES\tERRORS\tAVG MS\tMAX MS\tTOKENS\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%d\t%d\t\n",
			s.Tool, s.Calls, s.Misses, s.Errors, s.AvgMs(), s.MaxMs, s.TokensEst)
	}
	tw.Flush()
	if skipped > 0 {
		fmt.Fprintf(c.App.Writer, "%d unreadable lines skipped\n", skipped)
	}
	return nil
}
