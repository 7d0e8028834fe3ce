package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "articulos.yaml"

// dotEnvFile is loaded into the environment when present.
const dotEnvFile = ".env"

// loadFile merges the YAML file at path into c. An explicit path must exist;
// the default file is optional. Returns error if the file exists but cannot
// be parsed.
func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return fmt.Errorf("config file not found: %s", path)
		}
		return nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadDotEnv loads .env from the working directory without overriding
// variables that are already set.
func loadDotEnv() error {
	if _, err := os.Stat(dotEnvFile); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(dotEnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	return nil
}
