package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Ticket   TicketConfig   `yaml:"ticket"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

// StorageConfig selects the key-value backend the record sets live in and
// names the keys themselves, so two deployments can share one backend.
type StorageConfig struct {
	Backend        string `yaml:"backend"` // file | memory | redis | postgres
	Dir            string `yaml:"dir"`     // file backend only
	TicketsKey     string `yaml:"tickets_key"`
	StatisticsKey  string `yaml:"statistics_key"`
	CacheKey       string `yaml:"cache_key"`
	EnabledFlagKey string `yaml:"enabled_flag_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	TicketEventsTopic  string   `yaml:"ticket_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type TicketConfig struct {
	DurationSeconds int     `yaml:"duration_seconds"`
	UnitPrice       float64 `yaml:"unit_price"`
}

func (t TicketConfig) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

type CacheConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

type WorkerConfig struct {
	ExpirationSweepSeconds int `yaml:"expiration_sweep_seconds"`
	CacheSweepMinutes      int `yaml:"cache_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.TicketsKey == "" {
		c.Storage.TicketsKey = "transport_tickets"
	}
	if c.Storage.StatisticsKey == "" {
		c.Storage.StatisticsKey = "transport_statistics"
	}
	if c.Storage.CacheKey == "" {
		c.Storage.CacheKey = "transport_cache"
	}
	if c.Storage.EnabledFlagKey == "" {
		c.Storage.EnabledFlagKey = "storage_enabled"
	}
	if c.Ticket.DurationSeconds == 0 {
		c.Ticket.DurationSeconds = 3600
	}
	if c.Ticket.UnitPrice == 0 {
		c.Ticket.UnitPrice = 12.00
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = 24
	}
}
