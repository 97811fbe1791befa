package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soamn/aterna/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start the chat app",
	Long:  `Switch to the specified profile and immediately start the chat application.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		cfg.ActiveProfile = profileName
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		// Reload so the new active profile is the one resolved.
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		return runSession(cfg)
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
