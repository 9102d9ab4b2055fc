package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvKeyTerrainConfig は地形設定ファイルのパスを指定する環境変数です。
const EnvKeyTerrainConfig = "TERRAIN_CONFIG"

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv は TERRAIN_CONFIG のファイルを読み込みます。
// 未設定またはファイルが存在しない場合は既定値を返します。
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvKeyTerrainConfig)
	if path == "" {
		return Default(), nil
	}
	cfg, err := LoadAndValidate(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("terrain config not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("terrain config loaded", "path", path)
	return cfg, nil
}
