package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tradecheck/internal/paths"
	"github.com/mesh-intelligence/tradecheck/internal/refdata"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Addr           string `yaml:"addr"`
	TariffAPIURL   string `yaml:"tariff_api_url"`
	RequestTimeout string `yaml:"request_timeout"`
	LogLevel       string `yaml:"log_level"`
	DataDir        string `yaml:"data_dir,omitempty"`
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and reference data",
		Long:  "Create the configuration directory and config.yaml, export the reference\ndatasets into the data directory and build the reference database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	configDir, err := flags.resolveConfigDir()
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}

	dataDir, err := flags.resolveDataDir(loadDataDirFromConfig(configDir))
	if err != nil {
		return sysErrorf("resolve data dir: %w", err)
	}
	if dataDir == "" {
		if dataDir, err = paths.DefaultDataDir(); err != nil {
			return sysErrorf("default data dir: %w", err)
		}
	}

	if err := ensureConfigDir(configDir); err != nil {
		return sysErrorf("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, dataDir); err != nil {
		return sysErrorf("write config: %w", err)
	}

	written, err := refdata.ExportSeed(dataDir)
	if err != nil {
		return sysErrorf("export reference data: %w", err)
	}

	// Build the database once to confirm the data directory loads.
	store := refdata.NewStore(nil)
	if err := store.Attach(dataDir); err != nil {
		return sysErrorf("initialize reference data: %w", err)
	}
	if err := store.Detach(); err != nil {
		return sysErrorf("finalize reference data: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "tradecheck initialized successfully")
	fmt.Fprintln(out, "  config:", configPath)
	fmt.Fprintln(out, "  data:  ", dataDir)
	for _, p := range written {
		fmt.Fprintln(out, "  wrote: ", p)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Addr:           types.DefaultAddr,
		TariffAPIURL:   types.DefaultTariffAPIURL,
		RequestTimeout: types.DefaultRequestTimeout.String(),
		LogLevel:       types.DefaultLogLevel,
		DataDir:        dataDir,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// loadDataDirFromConfig reads data_dir from an existing config.yaml.
// Returns empty string if the file does not exist or cannot be read.
func loadDataDirFromConfig(configDir string) string {
	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	if err != nil {
		return ""
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	return cfg.DataDir
}
