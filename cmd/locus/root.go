package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/microbe-atlas/locus/internal/app"
)

type rootOptions struct {
	configPath string
	prefsPath  string
	poll       time.Duration
}

func execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "locus: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "locus",
		Short: "Terminal gene browser for a microbial genome portal",
		Long: `locus searches the genes of a microbial genome portal and shows them in a
text genome browser whose Genomic Context table follows the viewport.

Run without a subcommand to start the terminal UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.configPath,
				PrefsPath:  opts.prefsPath,
				PollEvery:  opts.poll,
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/locus/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/locus/prefs.toml)")
	cmd.Flags().DurationVar(&opts.poll, "poll", 0, "portal health poll interval (default from config)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newRegionCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// wordSepNormalizeFunc accepts per_page for per-page, matching the config
// file's spelling.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
