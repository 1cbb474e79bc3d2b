package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Cosmos  CosmosConfig
	ML      MLConfig
	OpenAI  OpenAIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig contains the Azure Blob Storage connection settings used for
// car photos.
type StorageConfig struct {
	ConnectionString string
	ContainerName    string
}

// CosmosConfig holds the document-store settings. The connection string is a
// MongoDB-protocol URI, which is what Cosmos DB's MongoDB API hands out.
type CosmosConfig struct {
	ConnectionString string
	DatabaseName     string
	ContainerName    string
}

// MLConfig holds the Azure ML price-prediction endpoint settings.
type MLConfig struct {
	EndpointURL string
	APIKey      string
	Deployment  string
}

// OpenAIConfig holds the Azure OpenAI chat-completion settings used for car
// summaries.
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
			ContainerName:    os.Getenv("AZURE_STORAGE_BLOB_CONTAINER_NAME"),
		},
		Cosmos: CosmosConfig{
			ConnectionString: os.Getenv("AZURE_COSMOS_CONNECTION_STRING"),
			DatabaseName:     os.Getenv("AZURE_COSMOS_DATABASE_NAME"),
			ContainerName:    os.Getenv("AZURE_COSMOS_CONTAINER_NAME"),
		},
		ML: MLConfig{
			EndpointURL: os.Getenv("AI_ENDPOINT_URL"),
			APIKey:      os.Getenv("AZURE_ML_API_KEY"),
			Deployment:  getenvWithDefault("AZURE_ML_DEPLOYMENT", "carmodeldata1-1"),
		},
		OpenAI: OpenAIConfig{
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
			Deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
			APIVersion: getenvWithDefault("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the fields needed to build the process-wide clients are
// populated. The ML and OpenAI credentials are deliberately not required
// here: their call paths check for them at request time and answer with a
// "not configured" error instead of refusing to boot.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Storage.ConnectionString == "":
		return errors.New("AZURE_STORAGE_CONNECTION_STRING must be provided")
	case c.Storage.ContainerName == "":
		return errors.New("AZURE_STORAGE_BLOB_CONTAINER_NAME must be provided")
	}

	switch {
	case c.Cosmos.ConnectionString == "":
		return errors.New("AZURE_COSMOS_CONNECTION_STRING must be provided")
	case c.Cosmos.DatabaseName == "":
		return errors.New("AZURE_COSMOS_DATABASE_NAME must be provided")
	case c.Cosmos.ContainerName == "":
		return errors.New("AZURE_COSMOS_CONTAINER_NAME must be provided")
	}

	return nil
}

// Configured reports whether the inference endpoint can be called.
func (m MLConfig) Configured() bool {
	return m.EndpointURL != "" && m.APIKey != ""
}

// Configured reports whether the chat-completion deployment can be called.
func (o OpenAIConfig) Configured() bool {
	return o.Endpoint != "" && o.APIKey != "" && o.Deployment != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
