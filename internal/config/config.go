package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig is optional: with no host configured the service runs on
// in-memory storage.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Charset  string `yaml:"charset"`
}

func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
	}
}

// LoadConfig reads the yaml config file. A missing file is not an error; the
// defaults let the binary run with zero setup.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8000
	}
	return config, nil
}
