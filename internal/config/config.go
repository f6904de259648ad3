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
	Scan          ScanConfig          `yaml:"scan" mapstructure:"scan"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	SerpAPI       SerpAPIConfig       `yaml:"serpapi" mapstructure:"serpapi"`
	PriceCharting PriceChartingConfig `yaml:"pricecharting" mapstructure:"pricecharting"`
	Anthropic     AnthropicConfig     `yaml:"anthropic" mapstructure:"anthropic"`
	Synth         SynthConfig         `yaml:"synth" mapstructure:"synth"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// ScanConfig configures the scan watcher and file organization.
type ScanConfig struct {
	// Dir is the directory the book scanner drops images into.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// OrganizedDir receives renamed item images grouped per tote.
	OrganizedDir string `yaml:"organized_dir" mapstructure:"organized_dir"`

	// PublicBaseURL is the externally reachable URL under which Dir is
	// served, so the visual-search API can fetch scans by URL.
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`

	// SettleMillis is how long to wait after a file appears before reading
	// it, letting the scanner finish writing.
	SettleMillis int `yaml:"settle_millis" mapstructure:"settle_millis"`
}

// StoreConfig configures the inventory database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SerpAPIConfig holds visual-search API settings.
type SerpAPIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PriceChartingConfig holds pricing-database API settings. An empty key
// disables pricing lookups entirely.
type PriceChartingConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// AnthropicConfig holds language-model API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SynthConfig bounds the per-item external calls.
type SynthConfig struct {
	SearchTimeoutSecs  int `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	PricingTimeoutSecs int `yaml:"pricing_timeout_secs" mapstructure:"pricing_timeout_secs"`
	ModelTimeoutSecs   int `yaml:"model_timeout_secs" mapstructure:"model_timeout_secs"`
	MaxConcurrentItems int `yaml:"max_concurrent_items" mapstructure:"max_concurrent_items"`
}

// ServerConfig configures the scan-directory file server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("TOTESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scan.dir", "./scans")
	v.SetDefault("scan.organized_dir", "./organized")
	v.SetDefault("scan.settle_millis", 1000)
	v.SetDefault("store.path", "./inventory.db")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("pricecharting.base_url", "https://www.pricecharting.com")
	v.SetDefault("pricecharting.max_results", 5)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("synth.search_timeout_secs", 30)
	v.SetDefault("synth.pricing_timeout_secs", 15)
	v.SetDefault("synth.model_timeout_secs", 120)
	v.SetDefault("synth.max_concurrent_items", 1)
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	// errgroup.SetLimit(0) would block every submission forever.
	if cfg.Synth.MaxConcurrentItems < 1 {
		cfg.Synth.MaxConcurrentItems = 1
	}

	return &cfg, nil
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
