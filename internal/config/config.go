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
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Index    IndexConfig    `yaml:"index" mapstructure:"index"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures the per-site fetch behavior.
type ScrapeConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int    `yaml:"retries" mapstructure:"retries"`
	ChromePath  string `yaml:"chrome_path" mapstructure:"chrome_path"`
	NoChrome    bool   `yaml:"no_chrome" mapstructure:"no_chrome"`
}

// PipelineConfig configures the concurrent scrape pipeline.
type PipelineConfig struct {
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	WallClockMins  int     `yaml:"wall_clock_mins" mapstructure:"wall_clock_mins"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// IndexConfig configures the embedded search index.
type IndexConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	Name string `yaml:"name" mapstructure:"name"`
}

// DataConfig holds the default CSV file locations.
type DataConfig struct {
	WebsitesCSV string `yaml:"websites_csv" mapstructure:"websites_csv"`
	NamesCSV    string `yaml:"names_csv" mapstructure:"names_csv"`
	ScrapedCSV  string `yaml:"scraped_csv" mapstructure:"scraped_csv"`
	MergedCSV   string `yaml:"merged_csv" mapstructure:"merged_csv"`
	SampleCSV   string `yaml:"sample_csv" mapstructure:"sample_csv"`
}

// ServerConfig configures the matching API server.
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
	v.SetEnvPrefix("COMPANY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bare env names kept for deployment compatibility.
	v.BindEnv("server.port", "COMPANY_SERVER_PORT", "PORT")
	v.BindEnv("scrape.chrome_path", "COMPANY_SCRAPE_CHROME_PATH", "CHROME_BINARY_PATH")
	v.BindEnv("index.path", "COMPANY_INDEX_PATH", "INDEX_PATH")
	v.BindEnv("index.name", "COMPANY_INDEX_NAME", "INDEX_NAME")

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 5000)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.retries", 2)
	v.SetDefault("pipeline.workers", 30)
	v.SetDefault("pipeline.wall_clock_mins", 10)
	v.SetDefault("pipeline.requests_per_sec", 0)
	v.SetDefault("index.path", "data/index")
	v.SetDefault("index.name", "company_profiles")
	v.SetDefault("data.websites_csv", "data/websites.csv")
	v.SetDefault("data.names_csv", "data/company-names.csv")
	v.SetDefault("data.scraped_csv", "data/scraped_company_data.csv")
	v.SetDefault("data.merged_csv", "data/merged_company_profiles.csv")
	v.SetDefault("data.sample_csv", "data/API-input-sample.csv")

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

// Validate checks the fields a given mode depends on.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "scrape":
		if c.Pipeline.Workers < 1 || c.Pipeline.Workers > 200 {
			problems = append(problems, "pipeline.workers must be between 1 and 200")
		}
		if c.Scrape.TimeoutSecs < 1 {
			problems = append(problems, "scrape.timeout_secs must be >= 1")
		}
		if c.Scrape.Retries < 0 {
			problems = append(problems, "scrape.retries must be >= 0")
		}
		if c.Pipeline.WallClockMins < 1 {
			problems = append(problems, "pipeline.wall_clock_mins must be >= 1")
		}
	case "index":
		if c.Index.Name == "" {
			problems = append(problems, "index.name is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Index.Name == "" {
			problems = append(problems, "index.name is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
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
