package config

import (
	"fmt"
	"log"
	"time"

	"whiteboard2web/internal/ai"
	"whiteboard2web/internal/ai/images"
	"whiteboard2web/internal/ai/prompts"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":5000"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// AI Configuration
	OpenRouterKey string        `mapstructure:"OPENROUTER_API_KEY"` // empty key means every request gets the fallback site
	AIBaseURL     string        `mapstructure:"AI_BASE_URL"`        // OpenAI-compatible endpoint
	AIModel       string        `mapstructure:"AI_MODEL"`           // e.g., "deepseek/deepseek-chat"
	AITimeout     time.Duration `mapstructure:"AI_TIMEOUT"`         // e.g., "30s"
	PromptStyle   string        `mapstructure:"PROMPT_STYLE"`       // "functional" or "pixel-exact"

	// Image Handling
	ImageMaxBytes int    `mapstructure:"IMAGE_MAX_BYTES"` // inline data URLs above this size are saved to disk
	ImageDir      string `mapstructure:"IMAGE_DIR"`       // empty means the OS temp dir

	// Project Export
	OutputDir string `mapstructure:"OUTPUT_DIR"` // empty disables writing generated projects to disk
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("OPENROUTER_API_KEY", "")
	v.SetDefault("AI_BASE_URL", ai.DefaultBaseURL)
	v.SetDefault("AI_MODEL", ai.DefaultModel)
	v.SetDefault("AI_TIMEOUT", ai.DefaultTimeout)
	v.SetDefault("PROMPT_STYLE", string(prompts.StyleFunctional))
	v.SetDefault("IMAGE_MAX_BYTES", images.DefaultMaxBytes)
	v.SetDefault("IMAGE_DIR", "")
	v.SetDefault("OUTPUT_DIR", "")
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	setDefaults(v)
	v.AutomaticEnv() // Read environment variables that match keys

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.OpenRouterKey == "" {
		log.Println("WARN: OPENROUTER_API_KEY is not set. Every generation will return the fallback site.")
	}
	if style := prompts.ParseStyle(config.PromptStyle); string(style) != config.PromptStyle {
		log.Printf("WARN: Unknown PROMPT_STYLE %q, using %q.", config.PromptStyle, style)
		config.PromptStyle = string(style)
	}

	return
}

// AIConfig returns the generator settings carried by this configuration.
func (c Config) AIConfig() ai.Config {
	return ai.Config{
		APIKey:        c.OpenRouterKey,
		BaseURL:       c.AIBaseURL,
		Model:         c.AIModel,
		Timeout:       c.AITimeout,
		MaxImageBytes: c.ImageMaxBytes,
		ImageDir:      c.ImageDir,
		Style:         prompts.ParseStyle(c.PromptStyle),
	}
}
