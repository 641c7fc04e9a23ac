package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"AHRSentinel/internal/calculator"
	"AHRSentinel/internal/model"
	"AHRSentinel/internal/pipeline"
	"AHRSentinel/internal/report"
	"AHRSentinel/internal/strategy"
)

// Date is a YAML calendar date in 2006-01-02 form.
type Date struct {
	time.Time
}

// UnmarshalYAML parses a YYYY-MM-DD scalar.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	t, err := model.ParseDay(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Time = t
	return nil
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		CoinGeckoURL string `yaml:"coingecko_url"`
		CoinCapURL   string `yaml:"coincap_url"`
		CoinCapKey   string `yaml:"coincap_api_key"`
	} `yaml:"data_source"`
	Files struct {
		PriceFile     string `yaml:"price_file"`
		ReportFile    string `yaml:"report_file"`
		DashboardFile string `yaml:"dashboard_file"`
	} `yaml:"files"`
	Indicator struct {
		GenesisDate Date    `yaml:"genesis_date"`
		Window      int     `yaml:"window"`
		CurveA      float64 `yaml:"curve_a"`
		CurveB      float64 `yaml:"curve_b"`
	} `yaml:"indicator"`
	Strategy struct {
		StartDate   Date            `yaml:"start_date"`
		Thresholds  []float64       `yaml:"thresholds"`
		SpendAmount decimal.Decimal `yaml:"spend_amount"`
	} `yaml:"strategy"`
	Report struct {
		HistoryDays int `yaml:"history_days"`
	} `yaml:"report"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Defaults returns the configuration used for every key a file leaves out.
func Defaults() *Config {
	cfg := &Config{}
	cfg.DataSource.CoinGeckoURL = "https://api.coingecko.com"
	cfg.DataSource.CoinCapURL = "https://api.coincap.io"
	cfg.Files.PriceFile = "data/btc-price.csv"
	cfg.Files.ReportFile = "data/ahr999_data.json"
	cfg.Files.DashboardFile = "data/index.html"
	cfg.Indicator.GenesisDate = Date{calculator.GenesisDate}
	cfg.Indicator.Window = calculator.DefaultWindow
	cfg.Indicator.CurveA = calculator.DefaultCurveA
	cfg.Indicator.CurveB = calculator.DefaultCurveB
	cfg.Strategy.StartDate = Date{time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)}
	cfg.Strategy.Thresholds = append([]float64(nil), strategy.DefaultThresholds...)
	cfg.Strategy.SpendAmount = decimal.NewFromInt(100)
	cfg.Report.HistoryDays = report.DefaultHistoryLen
	cfg.Schedule.UpdateCron = "0 5 0 * * *"
	cfg.Database.SQLitePath = "data/ahr_sentinel.db"
	return cfg
}

// Load starts from Defaults, overlays the YAML file, then applies environment
// variable overrides. Explicit values are kept as written so Validate sees them.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("COINCAP_API_KEY"); v != "" {
		cfg.DataSource.CoinCapKey = v
	}
	if v := os.Getenv("PRICE_FILE"); v != "" {
		cfg.Files.PriceFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("SPEND_AMOUNT"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("parse SPEND_AMOUNT: %w", err)
		}
		cfg.Strategy.SpendAmount = amount
	}
	if v := os.Getenv("STRATEGY_START"); v != "" {
		t, err := model.ParseDay(v)
		if err != nil {
			return nil, fmt.Errorf("parse STRATEGY_START: %w", err)
		}
		cfg.Strategy.StartDate = Date{t}
	}

	return cfg, nil
}

// Validate checks the settings every run depends on. Telegram is optional.
func (c *Config) Validate() error {
	if c.Indicator.Window <= 0 {
		return fmt.Errorf("%w: indicator.window must be positive", model.ErrInvalidConfig)
	}
	if c.Report.HistoryDays <= 0 {
		return fmt.Errorf("%w: report.history_days must be positive", model.ErrInvalidConfig)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("%w: telegram.bot_token and telegram.chat_id must be set together", model.ErrInvalidConfig)
	}
	return c.Pipeline().Strategy.Validate()
}

// Pipeline maps the file settings onto a run configuration.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Engine: calculator.EngineParams{
			Window:  c.Indicator.Window,
			Genesis: c.Indicator.GenesisDate.Time,
			CurveA:  c.Indicator.CurveA,
			CurveB:  c.Indicator.CurveB,
		},
		Strategy: strategy.Params{
			StartDate:   c.Strategy.StartDate.Time,
			Thresholds:  c.Strategy.Thresholds,
			SpendAmount: c.Strategy.SpendAmount,
		},
		HistoryLen: c.Report.HistoryDays,
	}
}
