package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vettr/ingest-cli/internal/discovery"
	"github.com/vettr/ingest-cli/internal/ingest"
	"github.com/vettr/ingest-cli/pkg/yahoo"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig             `yaml:"data" mapstructure:"data"`
	Provider yahoo.Config           `yaml:"provider" mapstructure:"provider"`
	Filter   ingest.FilterConfig    `yaml:"filter" mapstructure:"filter"`
	Batch    ingest.SchedulerConfig `yaml:"batch" mapstructure:"batch"`
	Discover DiscoverConfig         `yaml:"discover" mapstructure:"discover"`
	Log      LogConfig              `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the durable files of the pipeline.
type DataConfig struct {
	CatalogFile string `yaml:"catalog_file" mapstructure:"catalog_file"`
	StatusFile  string `yaml:"status_file" mapstructure:"status_file"`
	RecordsDir  string `yaml:"records_dir" mapstructure:"records_dir"`
}

// DiscoverConfig configures the exchange listing scrape.
type DiscoverConfig struct {
	Sources []discovery.Source `yaml:"sources" mapstructure:"sources"`
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
	v.SetEnvPrefix("VETTR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.catalog_file", "data/tickers.json")
	v.SetDefault("data.status_file", "data/ingestion_status.json")
	v.SetDefault("data.records_dir", "data/stock_data")
	v.SetDefault("provider.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("provider.user_agent", "vettr-ingest/1.0")
	v.SetDefault("provider.timeout_secs", 30)
	v.SetDefault("provider.rate_limit", 5)
	v.SetDefault("provider.burst", 5)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("filter.min_market_cap", 10_000_000)
	v.SetDefault("filter.max_market_cap", 10_000_000_000)
	v.SetDefault("batch.size", 20)
	v.SetDefault("batch.sleep_secs", 2)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.retry_failed", false)
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

	if len(cfg.Discover.Sources) == 0 {
		cfg.Discover.Sources = DefaultSources()
	}

	return &cfg, nil
}

// DefaultSources returns the listing pages for the three Canadian venues.
func DefaultSources() []discovery.Source {
	return []discovery.Source{
		{Exchange: "TSX", URL: "https://www.tsx.com/listings/listing-with-us/listed-company-directory?exchange=tsx", Suffix: ".TO"},
		{Exchange: "TSXV", URL: "https://www.tsx.com/listings/listing-with-us/listed-company-directory?exchange=tsxv", Suffix: ".V"},
		{Exchange: "CSE", URL: "https://thecse.com/listings", Suffix: ".CN"},
	}
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
