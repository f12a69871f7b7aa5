package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharmyrus/pharmyrus/internal/config"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root command with its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "pharmyrus",
		Short:   "Pharmyrus — BR patent discovery for pharmaceutical molecules",
		Long:    "Pharmyrus resolves a molecule name into its Brazilian national-phase\npatent filings by combining PubChem enrichment, WO family discovery,\nGoogle Patents family expansion and a direct INPI crawl.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newKeysCmd(opts),
	)
	return cmd
}

// loadConfig resolves the configuration for a command invocation: the file
// when --config is given, environment variables otherwise, with the
// --log-level override applied last.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}
