// Package config loads atlas configuration from defaults, atlas.yaml,
// ATLAS_ environment variables and command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/atlas/internal/cache"
	"github.com/leapstack-labs/atlas/internal/coverage"
	"github.com/leapstack-labs/atlas/internal/esa"
)

// Defaults.
const (
	DefaultRef        = esa.DefaultRef
	DefaultRegistry   = esa.DefaultRegistryPath
	DefaultWorkflow   = esa.DefaultWorkflowPath
	DefaultOutput     = "auto"
	DefaultLogLevel   = "info"
	DefaultStateFile  = ".atlas/atlas.db"
	DefaultServerAddr = ":8080"
)

// ESAConfig configures the registry/tree snapshot.
type ESAConfig struct {
	Repo         string        `koanf:"repo"`
	Ref          string        `koanf:"ref"`
	RegistryPath string        `koanf:"registry_path"`
	WorkflowPath string        `koanf:"workflow_path"`
	Token        string        `koanf:"token"`
	APIURL       string        `koanf:"api_url"`
	Timeout      time.Duration `koanf:"timeout"`
}

// SEOConfig configures the local SEO snapshot.
type SEOConfig struct {
	SiteRoot      string   `koanf:"site_root"`
	DisabledGates []string `koanf:"disabled_gates"`
}

// ContentConfig configures the content coverage analyzer.
type ContentConfig struct {
	BaseURL     string          `koanf:"base_url"`
	Concurrency int             `koanf:"concurrency"`
	Timeout     time.Duration   `koanf:"timeout"`
	MaxPages    int             `koanf:"max_pages"`
	Rules       []coverage.Rule `koanf:"rules"`
}

// ServerConfig configures atlas serve.
type ServerConfig struct {
	Addr             string            `koanf:"addr"`
	SessionSecret    string            `koanf:"session_secret"`
	Watch            bool              `koanf:"watch"`
	RefreshInterval  time.Duration     `koanf:"refresh_interval"`
	AutoArchive      bool              `koanf:"auto_archive"`
	RobotsDisallow   []string          `koanf:"robots_disallow"`
	Brands           map[string]string `koanf:"brands"`
	DefaultBrand     string            `koanf:"default_brand"`
	ReferrerPersonas map[string]string `koanf:"referrer_personas"`
}

// Config holds all configuration.
type Config struct {
	SiteURL   string        `koanf:"site_url"`
	Output    string        `koanf:"output"`
	Verbose   bool          `koanf:"verbose"`
	LogLevel  string        `koanf:"log_level"`
	StatePath string        `koanf:"state_path"`
	ESA       ESAConfig     `koanf:"esa"`
	SEO       SEOConfig     `koanf:"seo"`
	Content   ContentConfig `koanf:"content"`
	Cache     cache.Config  `koanf:"cache"`
	Server    ServerConfig  `koanf:"server"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}
