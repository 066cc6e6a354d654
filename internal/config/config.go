// Load envs from .env
// Load YAML config
// Override with env vars, apply defaults
// Validate per command

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LogLevel    string      `yaml:"log_level"`
	Sentinel    string      `yaml:"sentinel"`
	PreviewRows int         `yaml:"preview_rows"`
	Retry       RetryConfig `yaml:"retry"`

	HH     HHConfig     `yaml:"hh"`
	Rabota RabotaConfig `yaml:"rabota"`

	Sheets   SheetsConfig   `yaml:"sheets"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type RetryConfig struct {
	Attempts        int           `yaml:"attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// HHConfig drives the browser scrape of the hh.ru vacancy search.
type HHConfig struct {
	URLTemplate            string        `yaml:"url_template"`
	Roles                  []int         `yaml:"roles"`
	OutputFile             string        `yaml:"output_file"`
	Headless               bool          `yaml:"headless"`
	UserAgent              string        `yaml:"user_agent"`
	CookiesFile            string        `yaml:"cookies_file"`
	ScreenshotDir          string        `yaml:"screenshot_dir"`
	NavigationTimeout      time.Duration `yaml:"navigation_timeout"`
	SettleDelay            time.Duration `yaml:"settle_delay"`
	ProbeSettleDelay       time.Duration `yaml:"probe_settle_delay"`
	ScrollPause            time.Duration `yaml:"scroll_pause"`
	MaxScrolls             int           `yaml:"max_scrolls"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	Selectors              HHSelectors   `yaml:"selectors"`
}

// HHSelectors are CSS selectors for the search result markup. They track the
// site's current class names and are expected to be replaced when it changes.
type HHSelectors struct {
	Pager        string `yaml:"pager"`
	Card         string `yaml:"card"`
	Title        string `yaml:"title"`
	Location     string `yaml:"location"`
	Salary       string `yaml:"salary"`
	Company      string `yaml:"company"`
	Description  string `yaml:"description"`
	Requirements string `yaml:"requirements"`
	Experience   string `yaml:"experience"`
}

// RabotaConfig drives the signed rabota.ru API client.
type RabotaConfig struct {
	BaseURL                string        `yaml:"base_url"`
	IDFrom                 int64         `yaml:"id_from"`
	IDTo                   int64         `yaml:"id_to"`
	BatchSize              int           `yaml:"batch_size"`
	Timeout                time.Duration `yaml:"timeout"`
	OutputFile             string        `yaml:"output_file"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	RedirectURI            string        `yaml:"redirect_uri"`
	Credentials            Credentials   `yaml:"credentials"`
}

// Credentials are supplied out of band, normally through the environment.
type Credentials struct {
	AppID     string `yaml:"app_id" env:"APP_ID"`
	AppSecret string `yaml:"app_secret" env:"APP_SECRET"`
	Code      string `yaml:"code" env:"CODE_TOKEN"`
}

type SheetsConfig struct {
	CredentialsPath string `yaml:"credentials_path" env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SpreadsheetID   string `yaml:"spreadsheet_id" env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	// Tab defaults to the source name.
	Tab             string `yaml:"tab"`
}

func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn" env:"DATABASE_URL"`
	Table string `yaml:"table"`
}

func (p PostgresConfig) Enabled() bool {
	return p.DSN != ""
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Load reads envFile (if present) and the YAML file at path (if present),
// applies environment overrides and defaults. Credentials are not checked
// here; each command validates what it needs.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		HH: HHConfig{
			Headless: true,
			Roles:    []int{156, 10, 150, 165, 73, 96, 164, 107, 148, 126, 124},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("APP_ID"); v != "" {
		c.Rabota.Credentials.AppID = v
	}
	if v := os.Getenv("APP_SECRET"); v != "" {
		c.Rabota.Credentials.AppSecret = v
	}
	if v := os.Getenv("CODE_TOKEN"); v != "" {
		c.Rabota.Credentials.Code = v
	}

	if v := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"); v != "" {
		c.Sheets.CredentialsPath = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Sentinel == "" {
		c.Sentinel = "Не указано"
	}
	if c.PreviewRows == 0 {
		c.PreviewRows = 5
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 1
	}

	hh := &c.HH
	if hh.URLTemplate == "" {
		hh.URLTemplate = "https://hh.ru/search/vacancy?text=&professional_role={role}&enable_snippets=true&order_by=relevance&items_on_page=100&page={page}"
	}
	if hh.OutputFile == "" {
		hh.OutputFile = "vacancies.csv"
	}
	if hh.ScreenshotDir == "" {
		hh.ScreenshotDir = "logs/screenshots"
	}
	if hh.NavigationTimeout == 0 {
		hh.NavigationTimeout = 30 * time.Second
	}
	if hh.SettleDelay == 0 {
		hh.SettleDelay = time.Second
	}
	if hh.ProbeSettleDelay == 0 {
		hh.ProbeSettleDelay = 1500 * time.Millisecond
	}
	if hh.ScrollPause == 0 {
		hh.ScrollPause = 1500 * time.Millisecond
	}
	if hh.MaxScrolls == 0 {
		hh.MaxScrolls = 50
	}
	if hh.MaxConsecutiveFailures == 0 {
		hh.MaxConsecutiveFailures = 5
	}
	hh.Selectors.fillDefaults()

	r := &c.Rabota
	if r.BaseURL == "" {
		r.BaseURL = "https://api.rabota.ru"
	}
	if r.IDFrom == 0 && r.IDTo == 0 {
		r.IDFrom, r.IDTo = 46950440, 46960440
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 1
	}
	if r.Timeout == 0 {
		r.Timeout = 30 * time.Second
	}
	if r.OutputFile == "" {
		r.OutputFile = "rabota_ru_vacancies.csv"
	}
	if r.MaxConsecutiveFailures == 0 {
		r.MaxConsecutiveFailures = 5
	}
	if r.RedirectURI == "" {
		r.RedirectURI = "http://www.example.com/oauth"
	}

	if c.Postgres.Table == "" {
		c.Postgres.Table = "vacancies"
	}
}

func (s *HHSelectors) fillDefaults() {
	if s.Pager == "" {
		s.Pager = `a[data-qa="pager-page"]`
	}
	if s.Card == "" {
		s.Card = "div.magritte-redesign"
	}
	if s.Title == "" {
		s.Title = `a[data-qa="serp-item__title"]`
	}
	if s.Location == "" {
		s.Location = `span[data-qa="vacancy-serp__vacancy-address"]`
	}
	if s.Salary == "" {
		s.Salary = "span.magritte-text___pbpft_3-0-27.magritte-text_style-primary___AQ7MW_3-0-27.magritte-text_typography-label-1-regular___pi3R-_3-0-27"
	}
	if s.Company == "" {
		s.Company = `span[data-qa="vacancy-serp__vacancy-employer-text"]`
	}
	if s.Description == "" {
		s.Description = `div[data-qa="vacancy-serp__vacancy_snippet_responsibility"]`
	}
	if s.Requirements == "" {
		s.Requirements = `div[data-qa="vacancy-serp__vacancy_snippet_requirement"]`
	}
	if s.Experience == "" {
		s.Experience = "div.magritte-tag__label___YHV-o_3-1-3"
	}
}

// ValidateHH checks the settings the browser scrape cannot run without.
func (c *Config) ValidateHH() error {
	var problems []string
	if len(c.HH.Roles) == 0 {
		problems = append(problems, "hh.roles is empty")
	}
	if !strings.Contains(c.HH.URLTemplate, "{page}") {
		problems = append(problems, "hh.url_template has no {page} placeholder")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateRabota fails fast when a credential is missing or the ID range is
// empty, naming every problem at once.
func (c *Config) ValidateRabota() error {
	var missing []string
	if c.Rabota.Credentials.AppID == "" {
		missing = append(missing, "APP_ID")
	}
	if c.Rabota.Credentials.AppSecret == "" {
		missing = append(missing, "APP_SECRET")
	}
	if c.Rabota.Credentials.Code == "" {
		missing = append(missing, "CODE_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Rabota.IDTo <= c.Rabota.IDFrom {
		return fmt.Errorf("config: rabota id range [%d, %d) is empty", c.Rabota.IDFrom, c.Rabota.IDTo)
	}
	return nil
}
