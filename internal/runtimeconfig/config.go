package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderUnknown   = errors.New("widgy config: storage provider is invalid")
	ErrStorageDSNRequired       = errors.New("widgy config: storage dsn is required for the bun provider")
	ErrStorageDialectUnknown    = errors.New("widgy config: storage dialect is invalid")
	ErrLoggingProviderUnknown   = errors.New("widgy config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("widgy config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("widgy config: logging format is invalid")
	ErrPreviewPolicyUnknown     = errors.New("widgy config: preview policy is invalid")
	ErrPreviewPolicyInsecure    = errors.New("widgy config: allow_all preview policy requires allow_insecure")
	ErrPreviewPermissionMissing = errors.New("widgy config: permission preview policy requires a permission")
	ErrRedirectHostInvalid      = errors.New("widgy config: redirect host is invalid")
	ErrBasePathInvalid          = errors.New("widgy config: http base path must start with /")
)

// PreviewPolicy names the authorization policy the preview handler loads at
// start up.
type PreviewPolicy string

const (
	PreviewPolicyStaff      PreviewPolicy = "staff"
	PreviewPolicyPermission PreviewPolicy = "permission"
	PreviewPolicyAllowAll   PreviewPolicy = "allow_all"
)

// Config aggregates storage, logging and handler settings.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	HTTP      HTTPConfig      `yaml:"http"`
	Preview   PreviewConfig   `yaml:"preview"`
	Forms     FormsConfig     `yaml:"forms"`
	Templates TemplatesConfig `yaml:"templates"`
	Links     LinksConfig     `yaml:"links"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	Dialect  string `yaml:"dialect"`
	DSN      string `yaml:"dsn"`
	// AutoMigrate creates missing tables on start up.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// CacheConfig toggles the go-repository-cache layer in front of bun repositories.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	// AddSource and Focus only apply to the gologger provider.
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// HTTPConfig controls route registration and the listening address.
type HTTPConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// PreviewConfig configures who may preview unpublished trees.
type PreviewConfig struct {
	Policy        PreviewPolicy `yaml:"policy"`
	Permission    string        `yaml:"permission"`
	AllowInsecure bool          `yaml:"allow_insecure"`
}

// FormsConfig configures the form endpoint.
type FormsConfig struct {
	// AllowedRedirectHosts lists hosts an absolute `from` URL may point at.
	// Relative paths are always accepted.
	AllowedRedirectHosts []string `yaml:"allowed_redirect_hosts"`
}

// TemplatesConfig points the default renderer at its template directory.
type TemplatesConfig struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// LinksConfig configures absolute URL generation.
type LinksConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DefaultConfig returns an in-memory, staff-only preview setup.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/widgy",
		},
		Preview: PreviewConfig{
			Policy:     PreviewPolicyStaff,
			Permission: "widgy:preview",
		},
		Templates: TemplatesConfig{
			Dir: "templates",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
		switch normalize(cfg.Storage.Dialect) {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if base := strings.TrimSpace(cfg.HTTP.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrBasePathInvalid, base)
	}

	switch cfg.Preview.Policy {
	case PreviewPolicyStaff:
	case PreviewPolicyPermission:
		if strings.TrimSpace(cfg.Preview.Permission) == "" {
			return ErrPreviewPermissionMissing
		}
	case PreviewPolicyAllowAll:
		if !cfg.Preview.AllowInsecure {
			return ErrPreviewPolicyInsecure
		}
	default:
		return fmt.Errorf("%w: %q", ErrPreviewPolicyUnknown, cfg.Preview.Policy)
	}

	for _, host := range cfg.Forms.AllowedRedirectHosts {
		trimmed := strings.TrimSpace(host)
		if trimmed == "" || strings.ContainsAny(trimmed, "/\\@ ") {
			return fmt.Errorf("%w: %q", ErrRedirectHostInvalid, host)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
