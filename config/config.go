package config

import (
	"fmt"
	"log" // Import log
	"time"

	"proposal_ai_server/internal/ai"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress      string `mapstructure:"SERVER_ADDRESS"`               // e.g., ":8080"
	AppEnv             string `mapstructure:"APP_ENV"`                      // "production" selects gin release mode
	WriteTimeoutSecs   int    `mapstructure:"SERVER_WRITE_TIMEOUT_SECONDS"` // 0 means no write timeout
	SessionTTLMinutes  int    `mapstructure:"SESSION_TTL_MINUTES"`          // 0 keeps sessions until reset
	ExportFetchTimeout int    `mapstructure:"EXPORT_FETCH_TIMEOUT_SECONDS"` // per image, when inlining

	// AI Configuration
	OpenAIKey           string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL       string  `mapstructure:"OPENAI_BASE_URL"` // any OpenAI-compatible endpoint
	TextModelID         string  `mapstructure:"TEXT_MODEL_ID"`
	ImageModelID        string  `mapstructure:"IMAGE_MODEL_ID"`
	ImageSize           string  `mapstructure:"IMAGE_SIZE"`
	ImageResponseFormat string  `mapstructure:"IMAGE_RESPONSE_FORMAT"` // "url" or "b64_json"
	Temperature         float64 `mapstructure:"TEMPERATURE"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":               ":8080",
	"APP_ENV":                      "development",
	"SERVER_WRITE_TIMEOUT_SECONDS": 0,
	"SESSION_TTL_MINUTES":          120,
	"EXPORT_FETCH_TIMEOUT_SECONDS": 20,
	"OPENAI_API_KEY":               "",
	"OPENAI_BASE_URL":              "",
	"TEXT_MODEL_ID":                "gpt-4o",
	"IMAGE_MODEL_ID":               "dall-e-3",
	"IMAGE_SIZE":                   "1792x1024",
	"IMAGE_RESPONSE_FORMAT":        "url",
	"TEMPERATURE":                  0.7,
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv() // Read environment variables that match keys

	// Attempt to read the config file
	err = v.ReadInConfig()
	if err != nil {
		// If config file not found, log it but continue if env vars might be set
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

	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set. Only offline generation will work.")
	}
	switch config.ImageResponseFormat {
	case "url", "b64_json":
	default:
		return Config{}, fmt.Errorf("IMAGE_RESPONSE_FORMAT must be url or b64_json, got %q", config.ImageResponseFormat)
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return Config{}, fmt.Errorf("TEMPERATURE must be between 0 and 2, got %v", config.Temperature)
	}

	return
}

// AISettings maps the AI keys onto the generator settings.
func (c Config) AISettings() ai.Settings {
	return ai.Settings{
		APIKey:              c.OpenAIKey,
		BaseURL:             c.OpenAIBaseURL,
		TextModel:           c.TextModelID,
		ImageModel:          c.ImageModelID,
		ImageSize:           c.ImageSize,
		ImageResponseFormat: c.ImageResponseFormat,
		Temperature:         float32(c.Temperature),
	}
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.ExportFetchTimeout) * time.Second
}

// SessionTTL is how long an idle session is kept; zero disables pruning.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
