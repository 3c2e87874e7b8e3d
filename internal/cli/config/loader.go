package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type (
	loggerKey struct{}
	configKey struct{}
)

// EnvPrefix prefixes every configuration environment variable. A double
// underscore nests keys: ATLAS_ESA__TOKEN sets esa.token.
const EnvPrefix = "ATLAS_"

// maxUpwardSearchLevels limits how far up the directory tree to search.
const maxUpwardSearchLevels = 10

var configNames = []string{"atlas.yaml", "atlas.yml"}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"state":     "state_path",
	"site-root": "seo.site_root",
	"site-url":  "site_url",
	"log-level": "log_level",
}

// Result is a loaded configuration and the file it came from.
type Result struct {
	Config *Config
	File   string
}

func configIn(dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findConfigUpward searches startDir and its parents for a config file.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if p := configIn(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func defaults() map[string]any {
	return map[string]any{
		"output":              DefaultOutput,
		"verbose":             false,
		"log_level":           DefaultLogLevel,
		"state_path":          DefaultStateFile,
		"esa.ref":             DefaultRef,
		"esa.registry_path":   DefaultRegistry,
		"esa.workflow_path":   DefaultWorkflow,
		"esa.timeout":         "15s",
		"seo.site_root":       ".",
		"content.concurrency": 4,
		"content.timeout":     "15s",
		"content.max_pages":   200,
		"cache.backend":       "memory",
		"cache.ttl":           "1h",
		"server.addr":         DefaultServerAddr,
		"server.watch":        true,
	}
}

// Load reads configuration. Precedence, highest first: flags, environment,
// config file, defaults. Without an explicit file, atlas.yaml is searched
// upward from the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Result, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	root := cwd
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if abs, err := filepath.Abs(cfgFile); err == nil {
			root = filepath.Dir(abs)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf(&cfg)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = root

	// Flag paths are relative to the working directory, file and env paths
	// to the project root.
	cfg.SEO.SiteRoot = resolvePath(cfg.SEO.SiteRoot, root, flags, "site-root")
	cfg.StatePath = resolvePath(cfg.StatePath, root, flags, "state")

	cfg.ESA.Token = expandEnvVars(cfg.ESA.Token)
	if cfg.ESA.Token == "" {
		cfg.ESA.Token = firstEnv("ATLAS_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN")
	}
	cfg.Server.SessionSecret = expandEnvVars(cfg.Server.SessionSecret)
	cfg.Cache.Redis.Password = expandEnvVars(cfg.Cache.Redis.Password)
	cfg.Cache.Redis.Addr = expandEnvVars(cfg.Cache.Redis.Addr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Result{Config: &cfg, File: cfgFile}, nil
}

// unmarshalConf decodes durations and lets comma-separated strings from the
// environment fill list fields, e.g. ATLAS_SEO__DISABLED_GATES=G4,G5.
func unmarshalConf(out *Config) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	}
}

// envKey maps ATLAS_SEO__SITE_ROOT to seo.site_root.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func resolvePath(p, root string, flags *pflag.FlagSet, flag string) string {
	if p == "" || filepath.IsAbs(p) || p == ":memory:" {
		return p
	}
	if flags != nil && flags.Changed(flag) {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return filepath.Join(root, p)
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value. Unset variables
// are left as written.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context, or defaults when
// none was loaded.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	cfg := &Config{
		Output:    DefaultOutput,
		LogLevel:  DefaultLogLevel,
		StatePath: DefaultStateFile,
		ESA:       ESAConfig{Ref: DefaultRef, RegistryPath: DefaultRegistry, WorkflowPath: DefaultWorkflow},
		SEO:       SEOConfig{SiteRoot: "."},
		Server:    ServerConfig{Addr: DefaultServerAddr},
	}
	return cfg
}
