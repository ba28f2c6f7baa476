package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/engine"
	"github.com/vango-dev/vcore/pkg/render"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vcore.yaml"

	// JSONConfigFileName is the JSON alternative to ConfigFileName.
	JSONConfigFileName = "vcore.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultTree is the tree file served when none is given.
	DefaultTree = "tree.yaml"

	// DefaultDebounce is the default delay between a file change and the
	// re-render it triggers.
	DefaultDebounce = "100ms"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vcore"

	// DefaultExportKey is the object name used when exporting a tree.
	DefaultExportKey = "index.html"
)

// configNames are tried in order by Load.
var configNames = []string{ConfigFileName, "vcore.yml", JSONConfigFileName}

// Config represents the complete vcore configuration.
type Config struct {
	// Engine contains render engine settings.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Render contains static markup settings.
	Render RenderConfig `json:"render" yaml:"render"`

	// Dev contains preview server settings.
	Dev DevConfig `json:"dev" yaml:"dev"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Export contains static export settings.
	Export ExportConfig `json:"export" yaml:"export"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig mirrors engine.Options.
type EngineConfig struct {
	// Production suppresses returned render errors.
	Production bool `json:"production" yaml:"production"`

	// RenderCache enables the per-instance render cache.
	RenderCache bool `json:"renderCache" yaml:"renderCache"`

	// WarnOnRecoveryFailure logs failed identity recovery at warn level.
	WarnOnRecoveryFailure bool `json:"warnOnRecoveryFailure" yaml:"warnOnRecoveryFailure"`
}

// RenderConfig mirrors render.RendererConfig.
type RenderConfig struct {
	Pretty      bool   `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	Indent      string `json:"indent,omitempty" yaml:"indent,omitempty"`
	SanitizeRaw bool   `json:"sanitizeRaw,omitempty" yaml:"sanitizeRaw,omitempty"`
}

// DevConfig contains preview server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Tree is the tree file to serve, relative to the config file.
	Tree string `json:"tree,omitempty" yaml:"tree,omitempty"`

	// Debounce is the delay before a changed tree file is reloaded (e.g. "100ms").
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// ExportConfig contains S3 export settings.
type ExportConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Engine: EngineConfig{
			RenderCache:           true,
			WarnOnRecoveryFailure: true,
		},
		Render: RenderConfig{
			Indent: "  ",
		},
		Dev: DevConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Tree:     DefaultTree,
			Debounce: DefaultDebounce,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Export: ExportConfig{
			Key: DefaultExportKey,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vcore.yaml, vcore.yml and vcore.json in that order.
func Load(dir string) (*Config, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No " + ConfigFileName + " or " + JSONConfigFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or pass --config")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .json are decoded as JSON, everything else as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E121").
			WithDetail(err.Error()).
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Tree == "" {
		c.Dev.Tree = DefaultTree
	}
	if c.Dev.Debounce == "" {
		c.Dev.Debounce = DefaultDebounce
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Export.Key == "" {
		c.Export.Key = DefaultExportKey
	}
	c.Export.Prefix = strings.Trim(c.Export.Prefix, "/")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E122").
			WithDetail("dev.port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	if d, err := time.ParseDuration(c.Dev.Debounce); err != nil || d < 0 {
		return errors.New("E122").
			WithDetail("dev.debounce is not a duration: " + strconv.Quote(c.Dev.Debounce)).
			WithSuggestion(`Use a value such as "100ms"`)
	}
	if strings.Trim(c.Render.Indent, " \t") != "" {
		return errors.New("E122").
			WithDetail("render.indent may only contain spaces and tabs")
	}
	if c.Export.Endpoint != "" && !strings.Contains(c.Export.Endpoint, "://") {
		return errors.New("E122").
			WithDetail("export.endpoint must be a URL, got " + strconv.Quote(c.Export.Endpoint))
	}
	return nil
}

// EngineOptions returns the engine options described by the engine section.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithProduction(c.Engine.Production),
		engine.WithRenderCache(c.Engine.RenderCache),
		engine.WithRecoveryWarnings(c.Engine.WarnOnRecoveryFailure),
	}
}

// RendererConfig returns the static renderer configuration.
func (c *Config) RendererConfig() render.RendererConfig {
	return render.RendererConfig{
		Pretty:      c.Render.Pretty,
		Indent:      c.Render.Indent,
		SanitizeRaw: c.Render.SanitizeRaw,
	}
}

// DevAddress returns the address string for the preview server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the full URL for the preview server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// DebounceDuration returns the parsed dev.debounce value.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}

// TreePath returns the absolute path to the tree file.
func (c *Config) TreePath() string {
	if filepath.IsAbs(c.Dev.Tree) {
		return c.Dev.Tree
	}
	return filepath.Join(c.Dir(), c.Dev.Tree)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range configNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
