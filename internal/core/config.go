package core

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// apiKeyEnvVars lists the environment variables consulted for the model
// API key, in precedence order. The first non-empty value wins.
var apiKeyEnvVars = []string{"GENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}

// ModelConfig holds the vision model connection settings.
type ModelConfig struct {
	Name                  string `yaml:"name" validate:"required"`
	Endpoint              string `yaml:"endpoint" validate:"omitempty,url"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds" validate:"min=1"`
}

// UploadConfig bounds what the upload endpoints accept.
type UploadConfig struct {
	MaxFileSizeBytes  int64 `yaml:"maxFileSizeBytes" validate:"min=1"`
	MaxImageDimension int   `yaml:"maxImageDimension" validate:"min=0"`
}

type ServiceConfig struct {
	Port             int          `yaml:"port" validate:"min=1,max=65535"`
	Model            ModelConfig  `yaml:"model"`
	Upload           UploadConfig `yaml:"upload"`
	ResultTTLMinutes int          `yaml:"resultTTLMinutes" validate:"min=1"`

	// APIKey is resolved from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// RequestTimeout returns the model call timeout as a duration.
func (c *ServiceConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Model.RequestTimeoutSeconds) * time.Second
}

// ResultTTL returns how long finished results stay downloadable.
func (c *ServiceConfig) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLMinutes) * time.Minute
}

// LoadConfig loads configuration from the specified YAML file and resolves
// the model API key from the environment.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	config.APIKey = APIKeyFromEnv()

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("no model API key set, expected one of %v in the environment", apiKeyEnvVars)
	}

	return &config, nil
}

// applyDefaults fills unset fields so a minimal config file is enough to
// run the service.
func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Model.Name == "" {
		c.Model.Name = "gemini-2.5-flash"
	}
	if c.Model.RequestTimeoutSeconds == 0 {
		c.Model.RequestTimeoutSeconds = 60
	}
	if c.Upload.MaxFileSizeBytes == 0 {
		c.Upload.MaxFileSizeBytes = 10 << 20
	}
	if c.Upload.MaxImageDimension == 0 {
		c.Upload.MaxImageDimension = 3072
	}
	if c.ResultTTLMinutes == 0 {
		c.ResultTTLMinutes = 60
	}
}

// APIKeyFromEnv returns the model API key from the first non-empty
// environment variable in the precedence order.
func APIKeyFromEnv() string {
	for _, name := range apiKeyEnvVars {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
