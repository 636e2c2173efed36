// Package cli implements the tradecheck command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradecheck/internal/paths"
	"github.com/mesh-intelligence/tradecheck/pkg/tradecheck"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
}

// NewRootCmd creates the top-level "tradecheck" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:     "tradecheck",
		Short:   "Check how to import or export goods",
		Long:    "Tradecheck serves the questionnaire that tells a trader which measures,\nduties and certificates apply to a movement of goods.",
		Version: tradecheck.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "reference data directory (default: in memory)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newServeCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the environment rather than of the invocation.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return sysError{fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if _, ok := err.(sysError); ok {
		return exitSysError
	}
	return exitUserError
}

// resolveConfigDir returns the config directory from flag, env, or default.
func (f *rootFlags) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(f.configDir)
}

// resolveDataDir returns the data directory from flag, config.yaml or env.
// Empty means the reference data stays in memory.
func (f *rootFlags) resolveDataDir(configured string) (string, error) {
	return paths.ResolveDataDir(f.dataDir, configured)
}
