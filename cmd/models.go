package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/core"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		service := core.NewChatService(cfg.GetBaseURL(), logger)
		ids, err := service.ListModels(ctx, cfg.ResolveCredential())
		if err != nil {
			return err
		}

		current := cfg.GetModel()
		if modelFlag != "" {
			current = modelFlag
		}
		for _, id := range ids {
			marker := ""
			if id == current {
				marker = " (active)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", id, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
