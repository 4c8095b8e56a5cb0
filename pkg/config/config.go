package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"FinDash/pkg/logger"
	"FinDash/pkg/util"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Log         logger.Config `yaml:"log"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		Type string `yaml:"type" default:"sqlite" validate:"oneof=sqlite clickhouse memory"`
	} `yaml:"backend"`
	SQLite struct {
		Path string `yaml:"path" default:"findash.db"`
	} `yaml:"sqlite"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"findash"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers" default:"[\"localhost:9092\"]"`
		Topic        string   `yaml:"topic" default:"findash.signals"`
		RequiredAcks int      `yaml:"required_acks" default:"1" validate:"oneof=-1 0 1"`
		Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	TwelveData struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url" default:"https://api.twelvedata.com" validate:"url"`
		WebSocketURL   string        `yaml:"websocket_url" default:"wss://ws.twelvedata.com/v1/quotes/price"`
		Timeout        time.Duration `yaml:"timeout" default:"10s"`
		StreamEnabled  bool          `yaml:"stream_enabled"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"10s"`
		QuoteMaxAge    time.Duration `yaml:"quote_max_age" default:"5m"`
	} `yaml:"twelvedata"`
	Yahoo struct {
		BaseURL string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"yahoo"`
	FRED struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
		Series  MacroSeries   `yaml:"series"`
	} `yaml:"fred"`
	Breaker struct {
		MaxFailures uint32        `yaml:"max_failures" default:"5" validate:"gt=0"`
		OpenTimeout time.Duration `yaml:"open_timeout" default:"30s"`
	} `yaml:"breaker"`
	Market struct {
		Symbols     []string          `yaml:"symbols" default:"[\"SPY\",\"QQQ\",\"XLK\",\"XLF\",\"XLV\",\"XLE\",\"XLI\",\"XLY\",\"XLP\",\"XLU\",\"XLB\",\"XLRE\",\"XLC\",\"SMH\"]" validate:"min=1,dive,required"`
		Names       map[string]string `yaml:"names"`
		Benchmark   string            `yaml:"benchmark" default:"SPY" validate:"required"`
		Interval    string            `yaml:"interval" default:"1day" validate:"oneof=1day 1week 1month"`
		HistoryBars int               `yaml:"history_bars" default:"300" validate:"gte=35,lte=5000"`
	} `yaml:"market"`
	Signals struct {
		Weights          Weights `yaml:"weights"`
		BatchConcurrency int     `yaml:"batch_concurrency" default:"4" validate:"gte=1,lte=64"`
	} `yaml:"signals"`
	Regime struct {
		PlaybookPath string `yaml:"playbook_path"`
	} `yaml:"regime"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		TTL struct {
			Indicators time.Duration `yaml:"indicators" default:"5m"`
			Signals    time.Duration `yaml:"signals" default:"5m"`
			Momentum   time.Duration `yaml:"momentum" default:"15m"`
			Macro      time.Duration `yaml:"macro" default:"6h"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	RateLimit struct {
		RPS   float64 `yaml:"rps" default:"10" validate:"gt=0"`
		Burst int     `yaml:"burst" default:"20" validate:"gt=0"`
	} `yaml:"rate_limit"`
}

// Weights mirrors the composite signal weights.
type Weights struct {
	RSI       float64 `yaml:"rsi" default:"0.25" validate:"gte=0"`
	Bollinger float64 `yaml:"bollinger" default:"0.25" validate:"gte=0"`
	MACD      float64 `yaml:"macd" default:"0.30" validate:"gte=0"`
	ZScore    float64 `yaml:"zscore" default:"0.20" validate:"gte=0"`
}

// Series names a FRED series and the units transformation to request.
type Series struct {
	ID    string `yaml:"id"`
	Units string `yaml:"units" default:"lin" validate:"oneof=lin chg ch1 pch pc1 pca"`
}

// MacroSeries maps each regime input to a FRED series. An empty ID leaves the input unset.
type MacroSeries struct {
	GDPGrowth    Series `yaml:"gdp_growth"`
	Inflation    Series `yaml:"inflation"`
	Unemployment Series `yaml:"unemployment"`
	YieldCurve   Series `yaml:"yield_curve"`
	FedFunds     Series `yaml:"fed_funds"`
	ISM          Series `yaml:"ism"`
}

func defaultMacroSeries() MacroSeries {
	return MacroSeries{
		GDPGrowth:    Series{ID: "A191RL1Q225SBEA", Units: "lin"},
		Inflation:    Series{ID: "CPIAUCSL", Units: "pc1"},
		Unemployment: Series{ID: "UNRATE", Units: "lin"},
		YieldCurve:   Series{ID: "T10Y2Y", Units: "lin"},
		FedFunds:     Series{ID: "FEDFUNDS", Units: "lin"},
		ISM:          Series{ID: "", Units: "lin"},
	}
}

var validate = validator.New()

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	c := &Config{}
	c.FRED.Series = defaultMacroSeries()
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return c, nil
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// yields the defaults alone.
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
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.FRED.APIKey = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Market.Symbols = util.SplitSymbols(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Backend.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse backend")
	}
	return nil
}

// Name returns the display name configured for symbol, or the symbol itself.
func (c *Config) Name(symbol string) string {
	if n, ok := c.Market.Names[symbol]; ok && n != "" {
		return n
	}
	return symbol
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
