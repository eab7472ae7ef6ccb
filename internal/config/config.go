// Package config handles configuration and persona management for luz.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/luzyverdad/luz/internal/models"
)

// EnvPrefix is the prefix of environment overrides, e.g. LUZ_API_KEY
const EnvPrefix = "LUZ"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" mapstructure:"style"`                           // "luz", a glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" mapstructure:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" mapstructure:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" mapstructure:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" mapstructure:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// APIKey is the Gemini API key. When empty, GEMINI_API_KEY is used.
	APIKey       string `json:"api_key,omitempty" mapstructure:"api_key"`
	DefaultModel string `json:"default_model" mapstructure:"default_model"`
	APIBaseURL   string `json:"api_base_url" mapstructure:"api_base_url"`
	BibleAPIURL  string `json:"bible_api_url" mapstructure:"bible_api_url"`
	// Translation is the bible-api.com translation id used for lookups.
	Translation  string               `json:"translation" mapstructure:"translation"`
	Translations []models.Translation `json:"translations" mapstructure:"translations"`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int     `json:"request_timeout" mapstructure:"request_timeout"`
	Temperature    float64 `json:"temperature" mapstructure:"temperature"`
	DefaultPersona string  `json:"default_persona" mapstructure:"default_persona"`
	// SaveHistory persists chat conversations under the config directory.
	SaveHistory     bool           `json:"save_history" mapstructure:"save_history"`
	Verbose         bool           `json:"verbose" mapstructure:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" mapstructure:"tui_theme"`
	Markdown        MarkdownConfig `json:"markdown,omitempty" mapstructure:"markdown"`
}

// configFileOverride is set by the --config flag
var configFileOverride string

// SetConfigFile makes LoadConfig and SaveConfig use path instead of the default location
func SetConfigFile(path string) {
	configFileOverride = path
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "luz",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultTranslations returns the translations offered in the verse finder
func DefaultTranslations() []models.Translation {
	return []models.Translation{
		{ID: "web", Name: "World English Bible", Language: "English"},
		{ID: "kjv", Name: "King James Version", Language: "English"},
		{ID: "bbe", Name: "Bible in Basic English", Language: "English"},
		{ID: "almeida", Name: "João Ferreira de Almeida", Language: "Portuguese"},
		{ID: "clementine", Name: "Clementine Latin Vulgate", Language: "Latin"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:    models.DefaultModel.Alias,
		APIBaseURL:      models.EndpointGeminiBase,
		BibleAPIURL:     models.EndpointBibleAPI,
		Translation:     "web",
		Translations:    DefaultTranslations(),
		RequestTimeout:  60,
		Temperature:     0.7,
		DefaultPersona:  "consejero",
		SaveHistory:     true,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "luz",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path.
// LUZ_HOME overrides the default ~/.luzyverdad.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".luzyverdad"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key and chat history
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	if configFileOverride != "" {
		return configFileOverride, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// newViper returns a viper instance seeded with the defaults and env bindings
func newViper() *viper.Viper {
	def := DefaultConfig()
	v := viper.New()

	v.SetDefault("api_key", def.APIKey)
	v.SetDefault("default_model", def.DefaultModel)
	v.SetDefault("api_base_url", def.APIBaseURL)
	v.SetDefault("bible_api_url", def.BibleAPIURL)
	v.SetDefault("translation", def.Translation)
	v.SetDefault("translations", def.Translations)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("temperature", def.Temperature)
	v.SetDefault("default_persona", def.DefaultPersona)
	v.SetDefault("save_history", def.SaveHistory)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("copy_to_clipboard", def.CopyToClipboard)
	v.SetDefault("tui_theme", def.TUITheme)
	v.SetDefault("markdown.style", def.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", def.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", def.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", def.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", def.Markdown.InlineTableLinks)

	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig loads the configuration from disk and the environment.
// A missing file is not an error; defaults are used.
func LoadConfig() (Config, error) {
	v := newViper()

	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if len(cfg.Translations) == 0 {
		cfg.Translations = DefaultTranslations()
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	if configFileOverride == "" {
		if _, err := EnsureConfigDir(); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file may contain the API key
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SettableKeys lists the keys accepted by SetValue
func SettableKeys() []string {
	return []string{
		"api_key", "default_model", "api_base_url", "bible_api_url", "translation",
		"request_timeout", "temperature", "default_persona", "save_history",
		"verbose", "copy_to_clipboard", "tui_theme", "markdown.style",
	}
}

// SetValue parses value and assigns it to the field named by key
func SetValue(cfg *Config, key, value string) error {
	switch key {
	case "api_key":
		cfg.APIKey = value
	case "default_model":
		cfg.DefaultModel = value
	case "api_base_url":
		cfg.APIBaseURL = strings.TrimRight(value, "/")
	case "bible_api_url":
		cfg.BibleAPIURL = strings.TrimRight(value, "/")
	case "translation":
		cfg.Translation = value
	case "default_persona":
		cfg.DefaultPersona = value
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("request_timeout must be a positive number of seconds")
		}
		cfg.RequestTimeout = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("temperature must be between 0 and 2")
		}
		cfg.Temperature = f
	case "save_history", "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		switch key {
		case "save_history":
			cfg.SaveHistory = b
		case "verbose":
			cfg.Verbose = b
		default:
			cfg.CopyToClipboard = b
		}
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}

// FindTranslation returns the configured translation with the given id
func (c Config) FindTranslation(id string) (models.Translation, bool) {
	for _, t := range c.Translations {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return models.Translation{}, false
}

// AvailableModels returns a list of available model aliases
func AvailableModels() []string {
	all := models.AllModels()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Alias
	}
	return names
}
