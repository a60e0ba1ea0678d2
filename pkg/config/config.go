package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	ClickHouse struct {
		Host             string        `yaml:"host" validate:"required"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"signaldesk"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		CandleTable      string        `yaml:"candle_table" default:"signaldesk.candles"`
		SignalTable      string        `yaml:"signal_table" default:"signaldesk.signal_log"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr" default:"localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"5m"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"signaldesk.decisions"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		Linger       time.Duration `yaml:"linger" default:"1s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`
	Strategy struct {
		Weights             map[string]float64 `yaml:"weights" validate:"required,min=1"`
		ConfidenceThreshold float64            `yaml:"confidence_threshold" default:"0.5" validate:"gte=0,lte=1"`
		CriticalModules     []string           `yaml:"critical_modules"`
		AnchorModule        string             `yaml:"anchor_module" validate:"required"`
		HoldingPeriodDays   int                `yaml:"holding_period_days" default:"14" validate:"gt=0"`
		WarmupSteps         int                `yaml:"warmup_steps" default:"26" validate:"gte=0"`
	} `yaml:"strategy"`
	Backtest struct {
		RiskFreeRate  float64 `yaml:"risk_free_rate" default:"0"`
		MaxRangeYears int     `yaml:"max_range_years" default:"10" validate:"gt=0"`
	} `yaml:"backtest"`
	Analyzers struct {
		Disabled []string `yaml:"disabled"`
		Remote   struct {
			Enabled bool          `yaml:"enabled"`
			BaseURL string        `yaml:"base_url"`
			Name    string        `yaml:"name" default:"remote"`
			Timeout time.Duration `yaml:"timeout" default:"3s"`
		} `yaml:"remote"`
	} `yaml:"analyzers"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file, applies struct defaults,
// then validates once. Callers never re-check fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	return c, nil
}

// Validate checks the configuration, including cross-field strategy rules
// the struct tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name, w := range c.Strategy.Weights {
		if w < 0 {
			return fmt.Errorf("strategy.weights[%s] must be non-negative, got %v", name, w)
		}
	}
	if _, ok := c.Strategy.Weights[c.Strategy.AnchorModule]; !ok {
		return fmt.Errorf("strategy.anchor_module %q has no configured weight", c.Strategy.AnchorModule)
	}
	for _, name := range c.Strategy.CriticalModules {
		if _, ok := c.Strategy.Weights[name]; !ok {
			return fmt.Errorf("strategy.critical_modules entry %q has no configured weight", name)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
