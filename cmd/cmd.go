package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/promptns/internal/buildinfo"
	"github.com/thiagokokada/promptns/internal/config"
	"github.com/thiagokokada/promptns/internal/logging"
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		format      string
		watch       bool
		verbose     bool
		showVersion bool
	)
	root := &cobra.Command{
		Use:   "promptns [path]",
		Short: "Render the git prompt segment served by the promptns provider libraries",
		Long: "promptns evaluates the same providers the shared libraries export " +
			"(branch, staged/modified counts, ahead/behind) and renders them with a Go template.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logging.SetupCLI(cfg, verbose); err != nil {
				return err
			}
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Read())
				return nil
			}
			cfg := configFrom(cmd.Context())
			repoPath := "."
			if cfg.Repo != "" {
				repoPath = cfg.Repo
			}
			if len(args) > 0 {
				repoPath = args[0]
			}
			r, err := newRenderer(cfg, repoPath, format)
			if err != nil {
				return err
			}
			if watch {
				return r.watch(cmd.Context(), cmd.OutOrStdout(), cfg.Debounce)
			}
			return r.print(cmd.OutOrStdout())
		},
	}
	root.Flags().StringVarP(&format, "format", "f", defaultFormat, "Go template over the provider values, e.g. {{.branch}}")
	root.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the repository changes")
	root.Flags().BoolVar(&showVersion, "version", false, "print version information and exit")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSymbolsCmd(), newCallCmd())
	return root
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	return config.DefaultConfig()
}

// errNoValue makes "promptns call" exit non-zero when a provider is absent.
var errNoValue = errors.New("provider returned no value")

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
