package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/scanner"
	"github.com/gnana997/uicontext/pkg/util"
)

// configFile is looked up under the project root unless --config is given.
const configFile = ".uicontext/config.yaml"

// ProjectConfig holds the contents of .uicontext/config.yaml.
type ProjectConfig struct {
	Root            string            `yaml:"root"`
	Entry           string            `yaml:"entry"`
	OutDir          string            `yaml:"out_dir"`
	MetaDir         string            `yaml:"meta_dir"`
	Aliases         map[string]string `yaml:"aliases"`
	Workers         int               `yaml:"workers"`
	MaxDepth        int               `yaml:"max_depth"`
	DetailCacheSize int               `yaml:"detail_cache_size"`
	LogLevel        string            `yaml:"log_level"`
	LogFormat       string            `yaml:"log_format"`
	MCPLog          string            `yaml:"mcp_log"`
}

// loadProjectConfig reads the config file at path. A missing file yields an
// empty config and no error.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// settings is the effective configuration of one command after applying the
// fallback chain: flag, then config file, then default.
type settings struct {
	Root            string
	Entry           string
	OutDir          string
	MetaDir         string
	Aliases         map[string]string
	Workers         int
	MaxDepth        int
	DetailCacheSize int
	LogLevel        util.LogLevel
	LogFormat       util.LogFormat
	MCPLog          string
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// stringFlag returns a flag's value only when the user set it, so flag
// defaults never shadow the config file.
func stringFlag(c *cli.Context, name string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return ""
}

func intFlag(c *cli.Context, name string) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return 0
}

func loadSettings(c *cli.Context) (*settings, error) {
	root := pick(stringFlag(c, "root"), ".")
	configPath := pick(stringFlag(c, "config"), filepath.Join(root, configFile))
	file, err := loadProjectConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	// A root in the config file is relative to the directory holding
	// .uicontext/.
	if !c.IsSet("root") && file.Root != "" {
		root = file.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(filepath.Dir(filepath.Dir(configPath)), root)
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	defaults := scanner.DefaultConfig()
	s := &settings{
		Root:            absRoot,
		Entry:           pick(stringFlag(c, "entry"), file.Entry, defaults.Entry),
		OutDir:          pick(stringFlag(c, "out"), file.OutDir, defaults.OutDir),
		MetaDir:         pick(stringFlag(c, "meta"), file.MetaDir, defaults.MetaDir),
		Aliases:         file.Aliases,
		Workers:         pickInt(intFlag(c, "workers"), file.Workers),
		MaxDepth:        pickInt(intFlag(c, "max-depth"), file.MaxDepth),
		DetailCacheSize: pickInt(file.DetailCacheSize, catalog.DefaultDetailCacheSize),
		LogLevel:        util.ParseLogLevel(pick(stringFlag(c, "log-level"), file.LogLevel)),
		LogFormat:       util.ParseLogFormat(pick(stringFlag(c, "log-format"), file.LogFormat)),
		MCPLog:          pick(stringFlag(c, "mcp-log"), file.MCPLog),
	}
	return s, nil
}

// path resolves p against the project root.
func (s *settings) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}

// newLogger builds the command logger. Logs go to stderr unless w is set.
func (s *settings) newLogger(w io.Writer) *slog.Logger {
	cfg := util.DefaultLoggerConfig()
	cfg.Level = s.LogLevel
	cfg.Format = s.LogFormat
	if w != nil {
		cfg.Output = w
	}
	return util.NewLogger(cfg)
}

func (s *settings) scanConfig() scanner.Config {
	return scanner.Config{
		Root:     s.Root,
		Entry:    s.Entry,
		OutDir:   s.OutDir,
		MetaDir:  s.MetaDir,
		Aliases:  s.Aliases,
		Workers:  s.Workers,
		MaxDepth: s.MaxDepth,
	}
}

func (s *settings) storeConfig(logger *slog.Logger) catalog.StoreConfig {
	return catalog.StoreConfig{
		DataDir:         s.path(s.OutDir),
		Root:            s.Root,
		DetailCacheSize: s.DetailCacheSize,
		Logger:          logger,
	}
}
