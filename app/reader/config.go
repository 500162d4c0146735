package reader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aerospike-community/asreader/app/config"
)

// newConfigFromPath reads YAML config, missing fields get default values.
// An empty path yields the default config.
func newConfigFromPath(configPath string) (*config.TConfig, error) {
	if configPath == "" {
		return config.NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read file %v: %w", configPath, err)
	}

	return newConfigFromBytes(data)
}

func newConfigFromBytes(data []byte) (*config.TConfig, error) {
	var cfg config.TConfig

	// unknown fields are ignored so that configs may outlive the binary
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal `%v`: %w", string(data), err)
	}

	config.FillDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
