package configuration

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	"youtube-analytics/infrastructure/logger"
)

// Config is the full application configuration. It is constructed once by
// Load and passed explicitly into every component; there is no package-level
// ambient config.
type Config struct {
	App      App      `json:"app" mapstructure:"app"`
	Search   Search   `json:"search" mapstructure:"search"`
	Database Database `json:"database" mapstructure:"database"`
	Export   Export   `json:"export" mapstructure:"export"`
	YouTube  YouTube  `json:"youtube" mapstructure:"youtube"`
}

type App struct {
	Name string `json:"name" mapstructure:"name"`
	Port int    `json:"port" mapstructure:"port"`
}

// Search holds the default filter thresholds applied when a request does
// not override them.
type Search struct {
	MaxResults         int   `json:"maxResults" mapstructure:"maxResults"`
	MaxSubscribers     int64 `json:"maxSubscribers" mapstructure:"maxSubscribers"`
	MinDurationSeconds int   `json:"minDurationSeconds" mapstructure:"minDurationSeconds"`
	DaysBack           int   `json:"daysBack" mapstructure:"daysBack"`
}

type Database struct {
	Filename          string `json:"filename" mapstructure:"filename"`
	HistoryRetainDays int    `json:"historyRetainDays" mapstructure:"historyRetainDays"`
}

type Export struct {
	Dir            string `json:"dir" mapstructure:"dir"`
	FilenameFormat string `json:"filenameFormat" mapstructure:"filenameFormat"`
}

type YouTube struct {
	APIKey     string `json:"apiKey" mapstructure:"apiKey"`
	Region     string `json:"region" mapstructure:"region"`
	QuotaLimit int64  `json:"quotaLimit" mapstructure:"quotaLimit"`
}

// Load reads config.json (optionally config-<ENV>.json) from the working
// directory and its parents, applies environment overrides, and fills
// defaults for anything still unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName())
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	logger.GetLogger().WithField("config", configName()).Info("Configuration loaded")
	return &cfg, nil
}

func configName() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.YouTube.APIKey = v
	}
	if v := os.Getenv("YOUTUBE_REGION"); v != "" {
		cfg.YouTube.Region = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("DB_FILENAME"); v != "" {
		cfg.Database.Filename = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "YouTube Keyword Analytics"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 10010
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 20
	}
	if cfg.Search.MaxSubscribers == 0 {
		cfg.Search.MaxSubscribers = 10000
	}
	if cfg.Search.MinDurationSeconds == 0 {
		cfg.Search.MinDurationSeconds = 1200
	}
	if cfg.Search.DaysBack == 0 {
		cfg.Search.DaysBack = 30
	}
	if cfg.Database.Filename == "" {
		cfg.Database.Filename = "data/youtube_analytics.db"
	}
	if cfg.Database.HistoryRetainDays == 0 {
		cfg.Database.HistoryRetainDays = 90
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "exports"
	}
	if cfg.Export.FilenameFormat == "" {
		cfg.Export.FilenameFormat = "youtube_search_%s_%s.csv"
	}
	if cfg.YouTube.Region == "" {
		cfg.YouTube.Region = "KR"
	}
	if cfg.YouTube.QuotaLimit == 0 {
		cfg.YouTube.QuotaLimit = 10000
	}
}
