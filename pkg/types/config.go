package types

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the settings the service needs at startup.
type Config struct {
	// Addr is the listen address of the HTTP server (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// TariffAPIURL is the base URL of the upstream trade-tariff API.
	TariffAPIURL string `json:"tariff_api_url" yaml:"tariff_api_url"`

	// DataDir holds the reference database and optional JSONL overrides.
	// Empty keeps the reference database in memory.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// RequestTimeout bounds every upstream call.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// CalculatorURL is the internal duty calculator path.
	CalculatorURL string `json:"calculator_url" yaml:"calculator_url"`

	// XICalculatorURL is the cross-service calculator used for goods
	// entering Northern Ireland from Great Britain or a third country.
	XICalculatorURL string `json:"xi_calculator_url" yaml:"xi_calculator_url"`
}

// Defaults applied when a key is absent from config.yaml.
const (
	DefaultAddr            = ":8080"
	DefaultTariffAPIURL    = "https://www.trade-tariff.service.gov.uk/api/v2"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultCalculatorURL   = "/duty-calculator"
	DefaultXICalculatorURL = "https://www.trade-tariff.service.gov.uk/xi/duty-calculator"
)

// Config validation errors.
var (
	ErrAddrEmpty          = errors.New("addr must not be empty")
	ErrTariffURLEmpty     = errors.New("tariff_api_url must not be empty")
	ErrTariffURLInvalid   = errors.New("tariff_api_url must be an absolute http(s) URL")
	ErrTimeoutInvalid     = errors.New("request_timeout must be positive")
	ErrLogLevelUnknown    = errors.New("unknown log level")
	ErrCalculatorURLEmpty = errors.New("calculator urls must not be empty")
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrAddrEmpty
	}
	if c.TariffAPIURL == "" {
		return ErrTariffURLEmpty
	}
	u, err := url.Parse(c.TariffAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrTariffURLInvalid
	}
	if c.RequestTimeout <= 0 {
		return ErrTimeoutInvalid
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	if c.CalculatorURL == "" || c.XICalculatorURL == "" {
		return ErrCalculatorURLEmpty
	}
	return nil
}
