package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar-date format used for fetch bounds and datasets.
const DateLayout = "2006-01-02"

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	Fetch struct {
		Tickers  []string `yaml:"tickers" default:"[\"IQDNX\",\"DSU\",\"FSCO\",\"PDO\",\"KIO\",\"FRA\"]" validate:"min=1,dive,required"`
		Start    string   `yaml:"start" default:"2014-01-01" validate:"required"`
		End      string   `yaml:"end"` // empty means today
		Provider struct {
			BaseURL           string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
			Timeout           time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
			RequestsPerSecond float64       `yaml:"requests_per_second" default:"2" validate:"gt=0"`
			UserAgent         string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; navscan/1.0)"`
		} `yaml:"provider"`
	} `yaml:"fetch"`
	Dataset struct {
		Backend string `yaml:"backend" default:"csv" validate:"oneof=csv clickhouse"`
		Path    string `yaml:"path" default:"all_funds_nav.csv" validate:"required"`
	} `yaml:"dataset"`
	Analysis struct {
		ZThresh           float64 `yaml:"z_thresh" default:"3.0" validate:"gt=0"`
		Window            int     `yaml:"window" default:"10" validate:"gte=1"`
		MinHits           int     `yaml:"min_hits" default:"3" validate:"gte=1"`
		VolWindow         int     `yaml:"vol_window" default:"60" validate:"gte=2"`
		VolGap            float64 `yaml:"vol_gap" default:"0.4" validate:"gt=0"`
		AnomalyBurstDays  int     `yaml:"anomaly_burst_days" default:"10" validate:"gte=1"`
		AnomalySmoothDays int     `yaml:"anomaly_smooth_days" default:"50" validate:"gte=1"`
	} `yaml:"analysis"`
	Output struct {
		Dir          string  `yaml:"dir" default:"."`
		ChartWidth   float64 `yaml:"chart_width_in" default:"10" validate:"gt=0"`
		VolHeight    float64 `yaml:"vol_height_in" default:"5" validate:"gt=0"`
		NAVHeight    float64 `yaml:"nav_height_in" default:"6" validate:"gt=0"`
		NAVSMAPeriod int     `yaml:"nav_sma_period" default:"0" validate:"gte=0"`
	} `yaml:"output"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"12h"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"navscan"`
		Table        string        `yaml:"table" default:"nav_daily"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"navscan.summaries"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	Metrics struct {
		Enabled      bool   `yaml:"enabled"`
		TextfilePath string `yaml:"textfile_path" default:"navscan.prom"`
	} `yaml:"metrics"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
// An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is honoured when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("NAVSCAN_TICKERS"); v != "" {
		c.Fetch.Tickers = splitList(v)
	}
	if v := os.Getenv("NAVSCAN_START"); v != "" {
		c.Fetch.Start = v
	}
	if v := os.Getenv("NAVSCAN_END"); v != "" {
		c.Fetch.End = v
	}
	if v := os.Getenv("NAVSCAN_DATASET_BACKEND"); v != "" {
		c.Dataset.Backend = v
	}
	if v := os.Getenv("NAVSCAN_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	start, err := time.Parse(DateLayout, c.Fetch.Start)
	if err != nil {
		return fmt.Errorf("fetch.start must be YYYY-MM-DD, got '%s'", c.Fetch.Start)
	}
	if c.Fetch.End != "" {
		end, err := time.Parse(DateLayout, c.Fetch.End)
		if err != nil {
			return fmt.Errorf("fetch.end must be YYYY-MM-DD, got '%s'", c.Fetch.End)
		}
		if !end.After(start) {
			return fmt.Errorf("fetch.end must be after fetch.start")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Dataset.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse dataset backend")
	}
	return nil
}

// FetchRange resolves the configured fetch window. An empty end is "now".
func (c *Config) FetchRange(now time.Time) (time.Time, time.Time) {
	start, _ := time.Parse(DateLayout, c.Fetch.Start)
	end := now
	if c.Fetch.End != "" {
		end, _ = time.Parse(DateLayout, c.Fetch.End)
	}
	return start, end
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
