package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TRADECHECK"

	cfgKeyAddr            = "addr"
	cfgKeyTariffAPIURL    = "tariff_api_url"
	cfgKeyDataDir         = "data_dir"
	cfgKeyRequestTimeout  = "request_timeout"
	cfgKeyLogLevel        = "log_level"
	cfgKeyCalculatorURL   = "calculator_url"
	cfgKeyXICalculatorURL = "xi_calculator_url"
)

// envKeys may be overridden by TRADECHECK_<KEY>. data_dir is resolved by
// the paths package so that config.yaml keeps precedence over the env.
var envKeys = []string{
	cfgKeyAddr,
	cfgKeyTariffAPIURL,
	cfgKeyRequestTimeout,
	cfgKeyLogLevel,
	cfgKeyCalculatorURL,
	cfgKeyXICalculatorURL,
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# tradecheck configuration
# Every key may also be set with a TRADECHECK_ prefixed environment variable.

# Listen address of the HTTP server
addr: ":8080"

# Upstream trade-tariff API
tariff_api_url: https://www.trade-tariff.service.gov.uk/api/v2
request_timeout: 10s

# debug, info, warn or error
log_level: info

# Reference data directory (optional; overridable by --data-dir flag)
# data_dir:
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyAddr, types.DefaultAddr)
	v.SetDefault(cfgKeyTariffAPIURL, types.DefaultTariffAPIURL)
	v.SetDefault(cfgKeyRequestTimeout, types.DefaultRequestTimeout)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyCalculatorURL, types.DefaultCalculatorURL)
	v.SetDefault(cfgKeyXICalculatorURL, types.DefaultXICalculatorURL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// configFrom builds the service configuration. dataDir has already been
// resolved against the flag and env.
func configFrom(v *viper.Viper, dataDir string) (types.Config, error) {
	cfg := types.Config{
		Addr:            v.GetString(cfgKeyAddr),
		TariffAPIURL:    v.GetString(cfgKeyTariffAPIURL),
		DataDir:         dataDir,
		RequestTimeout:  v.GetDuration(cfgKeyRequestTimeout),
		LogLevel:        v.GetString(cfgKeyLogLevel),
		CalculatorURL:   v.GetString(cfgKeyCalculatorURL),
		XICalculatorURL: v.GetString(cfgKeyXICalculatorURL),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
