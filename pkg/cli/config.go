package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/tonescribe/pkg/storage"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".tonescribe"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Preference defaults applied by Config.Settings.
const (
	DefaultGrammar = "musicstring"
	DefaultLinker  = "generic"
	DefaultBackend = "oto"
)

// Config is the tonescribe configuration file.
type Config struct {
	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is a named set of compile, playback and export preferences.
type Context struct {
	Name string `yaml:"name" json:"name"`

	// Grammar selects the compiler: musicstring or rtttl.
	Grammar string `yaml:"grammar,omitempty" json:"grammar,omitempty"`

	// Linker is the default linker for `tonescribe link`.
	Linker string `yaml:"linker,omitempty" json:"linker,omitempty"`

	// Backend is the playback backend: oto or portaudio.
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`

	// DeviceRate is the output sample rate. Zero plays at 44100 Hz.
	DeviceRate int `yaml:"device_rate,omitempty" json:"device_rate,omitempty"`

	// LibraryDir is the badger directory of the tune library.
	LibraryDir string `yaml:"library_dir,omitempty" json:"library_dir,omitempty"`

	// Export is where rendered and linked artifacts go with --export.
	Export *storage.Target `yaml:"export,omitempty" json:"export,omitempty"`

	// Extra stores free-form settings
	Extra map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// LoadConfig loads or creates ~/.tonescribe/config.yaml.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context after validating it.
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name is required")
	}
	if err := ctx.Validate(); err != nil {
		return err
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or current context if name is empty
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Settings returns the effective preferences for the named context (or the
// current one when name is empty) with every unset field defaulted. Having
// no current context is not an error: the defaults are returned.
func (c *Config) Settings(name string) (Context, error) {
	var eff Context
	if name != "" || c.CurrentContext != "" {
		ctx, err := c.ResolveContext(name)
		if err != nil {
			return Context{}, err
		}
		eff = *ctx
	}
	if eff.Grammar == "" {
		eff.Grammar = DefaultGrammar
	}
	if eff.Linker == "" {
		eff.Linker = DefaultLinker
	}
	if eff.Backend == "" {
		eff.Backend = DefaultBackend
	}
	if eff.LibraryDir == "" {
		eff.LibraryDir = filepath.Join(c.Dir(), "library")
	}
	return eff, nil
}

// Validate checks the enumerated fields of a context. Empty values are
// allowed and mean "use the default".
func (ctx *Context) Validate() error {
	if err := oneOf("grammar", ctx.Grammar, "musicstring", "rtttl"); err != nil {
		return err
	}
	if err := oneOf("linker", ctx.Linker, "generic", "beep", "precise", "midi"); err != nil {
		return err
	}
	if err := oneOf("backend", ctx.Backend, "oto", "portaudio"); err != nil {
		return err
	}
	if ctx.DeviceRate < 0 {
		return fmt.Errorf("device_rate must not be negative: %d", ctx.DeviceRate)
	}
	if ctx.Export != nil {
		if err := oneOf("export.kind", ctx.Export.Kind, storage.KindLocal, storage.KindS3); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	if v == "" || slices.Contains(allowed, v) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", field, v, strings.Join(allowed, ", "))
}

// GetExtra returns an extra value for the context
func (ctx *Context) GetExtra(key string) string {
	if ctx.Extra == nil {
		return ""
	}
	return ctx.Extra[key]
}

// SetExtra sets an extra value for the context
func (ctx *Context) SetExtra(key, value string) {
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]string)
	}
	ctx.Extra[key] = value
}

// Masked returns a copy safe for display, with the export secret masked.
func (ctx *Context) Masked() *Context {
	out := *ctx
	if ctx.Export != nil {
		exp := *ctx.Export
		exp.SecretKey = MaskSecret(exp.SecretKey)
		out.Export = &exp
	}
	return &out
}

// MaskSecret masks a credential for display
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
