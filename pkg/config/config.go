package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"MarketLens/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		SnapshotDir string `yaml:"snapshot_dir"`
		MaxEntries  int    `yaml:"max_entries"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Providers struct {
		AlphaVantage ProviderConfig `yaml:"alphavantage"`
		FRED         ProviderConfig `yaml:"fred"`
		NewsAPI      ProviderConfig `yaml:"newsapi"`
		MarketAux    ProviderConfig `yaml:"marketaux"`
		FMP          ProviderConfig `yaml:"fmp"`
		Broker       struct {
			BaseURL        string        `yaml:"base_url"`
			WebSocketURL   string        `yaml:"websocket_url"`
			StreamEnabled  bool          `yaml:"stream_enabled"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"broker"`
		Flow ProviderConfig `yaml:"flow"`
		LLM  struct {
			APIKey    string `yaml:"api_key"`
			Model     string `yaml:"model"`
			MaxTokens int    `yaml:"max_tokens"`
		} `yaml:"llm"`
	} `yaml:"providers"`
	Sentiment struct {
		LookbackHours int           `yaml:"lookback_hours"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
	} `yaml:"sentiment"`
	Fundamentals struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
		ScoreTTL time.Duration `yaml:"score_ttl"`
	} `yaml:"fundamentals"`
	Macro struct {
		CacheTTL    time.Duration `yaml:"cache_ttl"`
		AnalysisTTL time.Duration `yaml:"analysis_ttl"`
		SeriesDelay time.Duration `yaml:"series_delay"`
	} `yaml:"macro"`
	Scheduler struct {
		BatchSize       int           `yaml:"batch_size"`
		BatchDelay      time.Duration `yaml:"batch_delay"`
		StartupDelay    time.Duration `yaml:"startup_delay"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		WeeklyEnabled   bool          `yaml:"weekly_enabled"`
	} `yaml:"scheduler"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
	} `yaml:"clickhouse"`
}

// ProviderConfig holds the settings shared by REST provider adapters.
type ProviderConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	RatePerSec float64       `yaml:"rate_per_sec"`
	Burst      int           `yaml:"burst"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets with environment variables.
// Providers with no key after overrides stay configured; their adapters degrade to
// empty results instead of failing startup.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Providers.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Providers.FRED.APIKey = v
	}
	if v := os.Getenv("NEWSAPI_API_KEY"); v != "" {
		c.Providers.NewsAPI.APIKey = v
	}
	if v := os.Getenv("MARKETAUX_API_TOKEN"); v != "" {
		c.Providers.MarketAux.APIKey = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		c.Providers.FMP.APIKey = v
	}
	if v := os.Getenv("FLOW_API_KEY"); v != "" {
		c.Providers.Flow.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Providers.LLM.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("SERVER_PORT"), c.Server.Port)

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Cache.SnapshotDir == "" {
		c.Cache.SnapshotDir = "data"
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 4096
	}
	if c.Cache.Redis.PoolSize <= 0 {
		c.Cache.Redis.PoolSize = 10
	}
	if c.Sentiment.LookbackHours <= 0 {
		c.Sentiment.LookbackHours = 24
	}
	if c.Sentiment.CacheTTL <= 0 {
		c.Sentiment.CacheTTL = 15 * time.Minute
	}
	if c.Fundamentals.CacheTTL <= 0 {
		c.Fundamentals.CacheTTL = 30 * time.Minute
	}
	if c.Fundamentals.ScoreTTL <= 0 {
		c.Fundamentals.ScoreTTL = time.Hour
	}
	if c.Macro.CacheTTL <= 0 {
		c.Macro.CacheTTL = 15 * time.Minute
	}
	if c.Macro.AnalysisTTL <= 0 {
		c.Macro.AnalysisTTL = time.Hour
	}
	if c.Macro.SeriesDelay <= 0 {
		c.Macro.SeriesDelay = 500 * time.Millisecond
	}
	if c.Scheduler.BatchSize <= 0 {
		c.Scheduler.BatchSize = 3
	}
	if c.Scheduler.BatchDelay <= 0 {
		c.Scheduler.BatchDelay = 2 * time.Second
	}
	if c.Scheduler.StartupDelay <= 0 {
		c.Scheduler.StartupDelay = 30 * time.Second
	}
	if c.Scheduler.RefreshInterval <= 0 {
		c.Scheduler.RefreshInterval = 4 * time.Hour
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
