package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/soamn/aterna/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage API profiles",
	Long:  `Manage API profiles for different providers and configurations.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Fprintln(out, "Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Fprintf(out, "  %s%s\n", name, marker)
			fmt.Fprintf(out, "    Model: %s\n", profile.Model)
			if profile.BaseURL != "" {
				fmt.Fprintf(out, "    Base URL: %s\n", profile.BaseURL)
			}
			fmt.Fprintf(out, "    API Key: %s\n\n", yesNo(profile.APIKey != ""))
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		baseURL := profile.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultBaseURL + " (default)"
		}
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden)"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile: %s\n", profileName)
		fmt.Fprintf(out, "Model: %s\n", profile.Model)
		fmt.Fprintf(out, "Base URL: %s\n", baseURL)
		fmt.Fprintf(out, "API Key: %s\n", hasKey)
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{Label: "Profile name", Validate: notEmpty}
			if profileName, err = prompt.Run(); err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			return fmt.Errorf("profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.Profile{Model: config.DefaultModel})
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' added successfully!\n", profileName)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName, err := pickProfile(args, "Select profile to edit", cfg.ProfileNames())
		if err != nil {
			return err
		}

		current, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		profile, err := promptProfile(current)
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' updated successfully!\n", profileName)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName, err := pickProfile(args, "Select profile to delete", cfg.ProfileNames())
		if err != nil {
			return err
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
			return nil
		}

		removeProfile(cfg, profileName)
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted successfully!\n", profileName)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		var others []string
		for _, name := range cfg.ProfileNames() {
			if name != cfg.ActiveProfile {
				others = append(others, name)
			}
		}
		if len(args) == 0 && len(others) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No other profiles available to switch to")
			return nil
		}

		profileName, err := pickProfile(args, "Select profile to switch to", others)
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

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'\n", profileName)
		return nil
	},
}

// removeProfile deletes name and, when it was active, activates another
// profile, recreating the default one if none is left.
func removeProfile(cfg *config.Config, name string) {
	delete(cfg.Profiles, name)
	if cfg.ActiveProfile != name {
		return
	}
	if names := cfg.ProfileNames(); len(names) > 0 {
		cfg.ActiveProfile = names[0]
		return
	}
	cfg.ActiveProfile = "default"
	cfg.Profiles["default"] = config.Profile{Model: config.DefaultModel}
}

// pickProfile takes the name from args or lets the user choose from names.
func pickProfile(args []string, label string, names []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if len(names) == 0 {
		return "", errors.New("no profiles available")
	}
	prompt := promptui.Select{Label: label, Items: names}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

// promptProfile asks for each profile field, offering current values as defaults.
func promptProfile(current config.Profile) (config.Profile, error) {
	var (
		profile config.Profile
		err     error
	)

	apiKeyPrompt := promptui.Prompt{Label: "API Key", Default: current.APIKey, Mask: '*'}
	if profile.APIKey, err = apiKeyPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	modelPrompt := promptui.Prompt{Label: "Model", Default: current.Model, Validate: notEmpty}
	if profile.Model, err = modelPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	baseURLPrompt := promptui.Prompt{Label: "Base URL (optional)", Default: current.BaseURL}
	if profile.BaseURL, err = baseURLPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	return profile, nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("value must not be empty")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
