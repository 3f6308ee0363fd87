package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName    string `mapstructure:"app_name"`
	Env        string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`
	ListenAddr string `mapstructure:"listen_addr"`

	RedditAuthURL      string        `mapstructure:"reddit_auth_url"`
	RedditAPIURL       string        `mapstructure:"reddit_api_url"`
	RedditUserAgent    string        `mapstructure:"reddit_user_agent"`
	RedditClientID     string        `mapstructure:"reddit_client_id"`
	RedditClientSecret string        `mapstructure:"reddit_client_secret"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	DefaultFeed       string `mapstructure:"default_feed"`
	DefaultSort       string `mapstructure:"default_sort"`
	DefaultTimeWindow string `mapstructure:"default_time_window"`
	DefaultLimit      int    `mapstructure:"default_limit"`
	DefaultLayout     string `mapstructure:"default_layout"`
	DefaultColumns    int    `mapstructure:"default_columns"`
	DefaultThumbSize  int    `mapstructure:"default_thumbnail_size"`

	ProbeMedia       bool `mapstructure:"probe_media"`
	ProbeConcurrency int  `mapstructure:"probe_concurrency"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
	PresetsFile    string `mapstructure:"presets_file"`

	// Snapshot-only settings, normally supplied as flags.
	Preset     string `mapstructure:"preset"`
	OutputPath string `mapstructure:"output"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with an optional flag set bound on top of the env layer.
// Flags use dashes; they are mapped onto the underscore keys above.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			key := flagKey(f.Name)
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagAliases lets the snapshot tool use short flag names for the default_* keys.
var flagAliases = map[string]string{
	"feed":           "default_feed",
	"sort":           "default_sort",
	"time-window":    "default_time_window",
	"limit":          "default_limit",
	"layout":         "default_layout",
	"columns":        "default_columns",
	"thumbnail-size": "default_thumbnail_size",
}

func flagKey(name string) string {
	if key, ok := flagAliases[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-media-wall")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":8080")

	v.SetDefault("reddit_auth_url", "https://www.reddit.com/api/v1/access_token")
	v.SetDefault("reddit_api_url", "https://oauth.reddit.com")
	v.SetDefault("reddit_user_agent", "samvad-media-wall/1.0")
	v.SetDefault("reddit_client_id", "")
	v.SetDefault("reddit_client_secret", "")
	v.SetDefault("http_timeout_seconds", 15)

	v.SetDefault("default_feed", "")
	v.SetDefault("default_sort", "best")
	v.SetDefault("default_time_window", "day")
	v.SetDefault("default_limit", 5)
	v.SetDefault("default_layout", "grid")
	v.SetDefault("default_columns", 4)
	v.SetDefault("default_thumbnail_size", 200)

	v.SetDefault("probe_media", false)
	v.SetDefault("probe_concurrency", 4)

	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/media-cache.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.SetDefault("publishers_file", "")
	v.SetDefault("presets_file", "")

	v.SetDefault("preset", "")
	v.SetDefault("output", "")
}

func (c *Config) finalize() error {
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if strings.TrimSpace(c.RedditAuthURL) == "" {
		return fmt.Errorf("reddit_auth_url is required")
	}
	if strings.TrimSpace(c.RedditAPIURL) == "" {
		return fmt.Errorf("reddit_api_url is required")
	}

	if c.ProbeConcurrency <= 0 {
		return fmt.Errorf("invalid probe_concurrency (must be positive)")
	}

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second
	return nil
}

// Redacted returns a copy safe for logging.
func (c *Config) Redacted() Config {
	if c == nil {
		return Config{}
	}
	out := *c
	if out.RedditClientSecret != "" {
		out.RedditClientSecret = "***"
	}
	return out
}
