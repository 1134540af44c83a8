package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the backend.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Load reads the YAML config file and applies GREYDEN_* environment
// overrides on top. Secrets normally arrive via a .env file loaded by
// the entrypoint, so the overrides cover the credential fields only.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.Database.Host, "GREYDEN_DB_HOST")
	overrideInt(&c.Database.Port, "GREYDEN_DB_PORT")
	overrideString(&c.Database.User, "GREYDEN_DB_USER")
	overrideString(&c.Database.Password, "GREYDEN_DB_PASSWORD")
	overrideString(&c.Database.Database, "GREYDEN_DB_NAME")
	overrideString(&c.RabbitMQ.Host, "GREYDEN_RABBITMQ_HOST")
	overrideInt(&c.RabbitMQ.Port, "GREYDEN_RABBITMQ_PORT")
	overrideString(&c.RabbitMQ.User, "GREYDEN_RABBITMQ_USER")
	overrideString(&c.RabbitMQ.Password, "GREYDEN_RABBITMQ_PASSWORD")
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("config: database.port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("config: database.database is required")
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
