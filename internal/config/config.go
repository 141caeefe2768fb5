package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Geo        GeoConfig        `yaml:"geo" mapstructure:"geo"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ClassifyRPS    float64  `yaml:"classify_rps" mapstructure:"classify_rps"`
	ClassifyBurst  int      `yaml:"classify_burst" mapstructure:"classify_burst"`
}

// ClassifierConfig configures issue classification.
type ClassifierConfig struct {
	// Provider selects the remote backend: "anthropic", "openai" or "local".
	Provider      string `yaml:"provider" mapstructure:"provider"`
	AnthropicKey  string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	OpenAIKey     string `yaml:"openai_key" mapstructure:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url" mapstructure:"openai_base_url"`
	Model         string `yaml:"model" mapstructure:"model"`
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	FallbackLocal bool   `yaml:"fallback_local" mapstructure:"fallback_local"`

	// Backfill tuning for re-classifying uncategorized issues.
	BackfillConcurrency int     `yaml:"backfill_concurrency" mapstructure:"backfill_concurrency"`
	BackfillRPS         float64 `yaml:"backfill_rps" mapstructure:"backfill_rps"`
}

// GeoConfig configures the feed's location defaults.
type GeoConfig struct {
	// Fallback coordinate used when no location source is available.
	FallbackLat     float64 `yaml:"fallback_lat" mapstructure:"fallback_lat"`
	FallbackLng     float64 `yaml:"fallback_lng" mapstructure:"fallback_lng"`
	DefaultRadiusKm float64 `yaml:"default_radius_km" mapstructure:"default_radius_km"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "civic.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.classify_rps", 2.0)
	v.SetDefault("server.classify_burst", 5)
	v.SetDefault("classifier.provider", "local")
	v.SetDefault("classifier.model", "claude-haiku-4-5-20251001")
	v.SetDefault("classifier.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("classifier.max_tokens", 1024)
	v.SetDefault("classifier.fallback_local", true)
	v.SetDefault("classifier.backfill_concurrency", 4)
	v.SetDefault("classifier.backfill_rps", 1.0)
	v.SetDefault("geo.fallback_lat", 40.7589)
	v.SetDefault("geo.fallback_lng", -73.9851)
	v.SetDefault("geo.default_radius_km", 5.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the config is usable for the given mode. Problems are
// collected so one run reports everything that needs fixing.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.ClassifyRPS < 0 {
			problems = append(problems, "server.classify_rps must be >= 0")
		}
		problems = append(problems, c.classifierProblems()...)
	case "classify":
		problems = append(problems, c.classifierProblems()...)
		if c.Classifier.BackfillConcurrency < 1 || c.Classifier.BackfillConcurrency > 50 {
			problems = append(problems, "classifier.backfill_concurrency must be between 1 and 50")
		}
	case "store":
		// Store fields above are enough.
	default:
		problems = append(problems, "unknown mode "+mode)
	}

	if len(problems) == 0 {
		return nil
	}
	return eris.New("config: " + strings.Join(problems, "; "))
}

func (c *Config) classifierProblems() []string {
	var problems []string
	switch c.Classifier.Provider {
	case "local":
	case "anthropic":
		if c.Classifier.AnthropicKey == "" {
			problems = append(problems, "classifier.anthropic_key is required")
		}
	case "openai":
		if c.Classifier.OpenAIKey == "" {
			problems = append(problems, "classifier.openai_key is required")
		}
	default:
		problems = append(problems, "classifier.provider must be local, anthropic or openai")
	}
	if c.Classifier.Provider != "local" && c.Classifier.Model == "" {
		problems = append(problems, "classifier.model is required")
	}
	return problems
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
