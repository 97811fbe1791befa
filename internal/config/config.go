package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	DefaultModel   = "deepseek-r1-distill-llama-70b"
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// CredentialEnv overrides the active profile's api_key.
	CredentialEnv = "API_KEY"
	// PlaceholderKey is sent when no credential is configured. The endpoint
	// rejects it, which surfaces as an ordinary transport error.
	PlaceholderKey = "nokey"
)

type Profile struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	RenderMarkdown bool               `json:"render_markdown"`
	currentProfile *Profile
}

// Credential is the API key resolved once at startup.
type Credential struct {
	Value   string
	Missing bool
}

// IsMissing reports whether the placeholder key is in use.
func (c Credential) IsMissing() bool {
	return c.Missing
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// ResolveCredential prefers the API_KEY environment variable over the
// profile's stored key and falls back to the placeholder.
func (c *Config) ResolveCredential() Credential {
	return resolveCredential(os.Getenv(CredentialEnv), c.GetAPIKey())
}

func resolveCredential(env, stored string) Credential {
	if env != "" {
		return Credential{Value: env}
	}
	if stored != "" {
		return Credential{Value: stored}
	}
	return Credential{Value: PlaceholderKey, Missing: true}
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil || c.currentProfile.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.currentProfile.BaseURL
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the directory holding config.json and the log file.
func Dir() (string, error) {
	if home := os.Getenv("ATERNA_HOME"); home != "" {
		return filepath.Join(home, ".aterna"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".aterna"), nil
}

func getConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func defaultConfig() *Config {
	return &Config{
		Profiles: map[string]Profile{
			"default": {Model: DefaultModel},
		},
		ActiveProfile:  "default",
		RenderMarkdown: true,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := defaultConfig()
	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}
	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name so the choice is stable.
		name := c.ProfileNames()[0]
		c.ActiveProfile = name
		profile = c.Profiles[name]
	}

	c.currentProfile = &profile
	return nil
}
