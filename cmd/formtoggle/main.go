// Command formtoggle pre-renders, serves, prompts and watches role dependent
// form fields.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/internal/config"
	"github.com/goliatone/go-formtoggle/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "formtoggle",
	Short: "Show a dependent form field only while a controller field matches",
	Long: `formtoggle binds visibility rules such as "show the specialty field only
for mechanics" to HTML pages, live browser pages and terminal prompts.

Rules come from YAML rule files, from x-formtoggle extensions in an OpenAPI
document, or default to the role/specialty rule.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		built, err := logging.New(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./"+config.DefaultConfigPath+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPromptCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newRulesCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
