package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soamn/aterna/internal/app"
	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/logging"
)

var (
	verbose   bool
	modelFlag string
	plainFlag bool
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "aterna",
	Short: "Terminal chat client for OpenAI-compatible endpoints",
	Long: `aterna is a small terminal chat client. Type a message and press Enter
to send it; press Esc for command mode (quit, clear, reset, select model).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to resolve config directory: %w", err)
		}
		logger, err = logging.New(dir, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		return runSession(cfg)
	},
}

// runSession starts the chat UI and blocks until the user quits.
func runSession(cfg *config.Config) error {
	application, err := app.NewApplication(cfg, app.Options{
		Model:  modelFlag,
		Plain:  plainFlag,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	return application.Start()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "model to start with (overrides the profile)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "show replies as plain text instead of markdown")

	rootCmd.AddCommand(profileCmd)
}
