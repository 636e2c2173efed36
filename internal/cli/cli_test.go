package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tradecheck/internal/paths"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// isolateEnv clears every variable the CLI reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	for _, k := range envKeys {
		t.Setenv(envPrefix+"_"+strings.ToUpper(k), "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradecheck v0.3.0")
	assert.Contains(t, out, "module: github.com/mesh-intelligence/tradecheck")
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "version", "extra")
	assert.Error(t, err)
}

func TestLoadConfig_WritesDefaultFile(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "conf")

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, configFileExt))

	cfg, err := configFrom(v, "")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultAddr, cfg.Addr)
	assert.Equal(t, types.DefaultTariffAPIURL, cfg.TariffAPIURL)
	assert.Equal(t, types.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, types.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, types.DefaultCalculatorURL, cfg.CalculatorURL)
	assert.Equal(t, types.DefaultXICalculatorURL, cfg.XICalculatorURL)
	assert.Empty(t, cfg.DataDir)
}

func TestLoadConfig_KeepsExistingFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	custom := "addr: \":9090\"\nrequest_timeout: 3s\nlog_level: debug\ndata_dir: /srv/refdata\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(custom), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data), "existing config.yaml must not be rewritten")

	cfg, err := configFrom(v, "/srv/refdata")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/refdata", v.GetString(cfgKeyDataDir))
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("addr: \":9090\"\n"), 0o644))
	t.Setenv("TRADECHECK_ADDR", ":7070")
	t.Setenv("TRADECHECK_TARIFF_API_URL", "http://tariff.internal/api/v2")

	v, err := loadConfig(dir)
	require.NoError(t, err)

	cfg, err := configFrom(v, "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "http://tariff.internal/api/v2", cfg.TariffAPIURL)
}

func TestConfigFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown log level",
			yaml:    "log_level: loud\n",
			wantErr: types.ErrLogLevelUnknown,
		},
		{
			name:    "relative tariff url",
			yaml:    "tariff_api_url: /api/v2\n",
			wantErr: types.ErrTariffURLInvalid,
		},
		{
			name:    "zero timeout",
			yaml:    "request_timeout: 0s\n",
			wantErr: types.ErrTimeoutInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(tt.yaml), 0o644))

			v, err := loadConfig(dir)
			require.NoError(t, err)

			_, err = configFrom(v, "")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("addr: [unclosed\n"), 0o644))

	_, err := loadConfig(dir)
	assert.Error(t, err)
}

func TestInitCmd(t *testing.T) {
	isolateEnv(t)
	configDir := filepath.Join(t.TempDir(), "conf")
	dataDir := filepath.Join(t.TempDir(), "data")

	out, err := execute(t, "init", "--config-dir", configDir, "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "tradecheck initialized successfully")

	assert.FileExists(t, filepath.Join(dataDir, "countries.jsonl"))
	assert.FileExists(t, filepath.Join(dataDir, "codes.jsonl"))
	assert.FileExists(t, filepath.Join(dataDir, "refdata.db"))

	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	var cf configFile
	require.NoError(t, yaml.Unmarshal(data, &cf))
	assert.Equal(t, dataDir, cf.DataDir)
	assert.Equal(t, types.DefaultAddr, cf.Addr)
	assert.Equal(t, "10s", cf.RequestTimeout)

	t.Run("second run is idempotent", func(t *testing.T) {
		out, err := execute(t, "init", "--config-dir", configDir)
		require.NoError(t, err)
		assert.NotContains(t, out, "wrote:", "existing datasets must not be rewritten")
		assert.Contains(t, out, dataDir, "data_dir comes from config.yaml")
	})
}

func TestInitCmd_DataDirIsFile(t *testing.T) {
	isolateEnv(t)
	configDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(dataDir, []byte("not a directory"), 0o644))

	_, err := execute(t, "init", "--config-dir", configDir, "--data-dir", dataDir)
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestLoadDataDirFromConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, loadDataDirFromConfig(dir), "missing file")

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("data_dir: /var/lib/tradecheck\n"), 0o644))
	assert.Equal(t, "/var/lib/tradecheck", loadDataDirFromConfig(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("data_dir: [unclosed\n"), 0o644))
	assert.Empty(t, loadDataDirFromConfig(dir), "unreadable file")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbose   bool
		wantDebug bool
		wantInfo  bool
		wantErr   bool
	}{
		{name: "info", level: "info", wantInfo: true},
		{name: "warn hides info", level: "warn"},
		{name: "verbose forces debug", level: "error", verbose: true, wantDebug: true, wantInfo: true},
		{name: "unknown level", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(tt.level, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantInfo, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestBuildServer(t *testing.T) {
	cfg := types.Config{
		Addr:            "127.0.0.1:0",
		TariffAPIURL:    "http://127.0.0.1:1/api/v2",
		DataDir:         t.TempDir(),
		RequestTimeout:  time.Second,
		LogLevel:        "info",
		CalculatorURL:   types.DefaultCalculatorURL,
		XICalculatorURL: types.DefaultXICalculatorURL,
	}

	srv, closeFn, err := buildServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, closeFn()) })

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(errors.New("bad flag")))
	assert.Equal(t, exitSysError, exitCode(sysErrorf("disk: %w", os.ErrPermission)))
	assert.ErrorIs(t, sysErrorf("disk: %w", os.ErrPermission), os.ErrPermission)
}
