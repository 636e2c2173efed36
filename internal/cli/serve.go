package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/i18n"
	"github.com/mesh-intelligence/tradecheck/internal/refdata"
	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/internal/web"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the questionnaire over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.configure()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger, err := newLogger(cfg.LogLevel, flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config.yaml addr)")
	return cmd
}

// configure loads config.yaml and resolves the data directory.
func (f *rootFlags) configure() (types.Config, error) {
	configDir, err := f.resolveConfigDir()
	if err != nil {
		return types.Config{}, sysErrorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, sysErrorf("load config: %w", err)
	}
	dataDir, err := f.resolveDataDir(v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysErrorf("resolve data dir: %w", err)
	}
	return configFrom(v, dataDir)
}

func runServe(ctx context.Context, cfg types.Config, logger *zap.Logger) error {
	srv, closeFn, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn("detach reference data", zap.Error(err))
		}
	}()
	return srv.Run(ctx)
}

// buildServer wires the reference store, tariff client and locale catalog
// into a web server. The returned func releases the reference store.
func buildServer(cfg types.Config, logger *zap.Logger) (*web.Server, func() error, error) {
	store := refdata.NewStore(logger.Named("refdata"))
	if err := store.Attach(cfg.DataDir); err != nil {
		return nil, nil, sysErrorf("attach reference data: %w", err)
	}

	client, err := tariff.NewClient(cfg.TariffAPIURL,
		tariff.WithTimeout(cfg.RequestTimeout),
		tariff.WithLogger(logger.Named("tariff")),
	)
	if err != nil {
		_ = store.Detach()
		return nil, nil, fmt.Errorf("tariff client: %w", err)
	}

	catalog, err := i18n.Load()
	if err != nil {
		_ = store.Detach()
		return nil, nil, sysErrorf("load locales: %w", err)
	}

	srv, err := web.New(web.Options{
		Config:  cfg,
		Tariff:  client,
		Refdata: store,
		Catalog: catalog,
		Logger:  logger.Named("web"),
	})
	if err != nil {
		_ = store.Detach()
		return nil, nil, err
	}
	return srv, store.Detach, nil
}
