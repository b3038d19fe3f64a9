package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Booking BookingConfig `yaml:"booking"`
	Payment PaymentConfig `yaml:"payment"`
	Catalog []FlightSeed  `yaml:"catalog"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RedisConfig is optional; an empty Addr disables the flights cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig is optional; no brokers disables event publishing.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	RefundWindowHours int   `yaml:"refund_window_hours"`
	RefundPercent     int64 `yaml:"refund_percent"`
	FlightsCacheTTL   int   `yaml:"flights_cache_ttl_seconds"`
}

func (b BookingConfig) RefundWindow() time.Duration {
	return time.Duration(b.RefundWindowHours) * time.Hour
}

func (b BookingConfig) CacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

type PaymentConfig struct {
	ProcessingDelayMs int `yaml:"processing_delay_ms"`
}

func (p PaymentConfig) ProcessingDelay() time.Duration {
	return time.Duration(p.ProcessingDelayMs) * time.Millisecond
}

// FlightSeed describes one catalog flight. Departure is DepartureInHours
// after start-up, at DepartureTime ("15:04") when set.
type FlightSeed struct {
	ID               string `yaml:"id"`
	Airline          string `yaml:"airline"`
	Origin           string `yaml:"origin"`
	Destination      string `yaml:"destination"`
	DepartureInHours int    `yaml:"departure_in_hours"`
	DepartureTime    string `yaml:"departure_time"`
	BaseFare         string `yaml:"base_fare"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads a .env file into the process environment if one exists.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080", ShutdownSeconds: 5},
		Log:  LogConfig{Level: "info", Format: "json"},
		Booking: BookingConfig{
			RefundWindowHours: 24,
			RefundPercent:     40,
			FlightsCacheTTL:   30,
		},
		Kafka: KafkaConfig{
			BookingTopic:       "bookings",
			NotificationsTopic: "notifications",
			GroupID:            "flightbooking-notifier",
		},
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	if c.Booking.RefundWindowHours < 0 {
		return errors.New("booking.refund_window_hours cannot be negative")
	}
	if c.Booking.RefundPercent < 0 || c.Booking.RefundPercent > 100 {
		return errors.New("booking.refund_percent must be between 0 and 100")
	}
	if c.Payment.ProcessingDelayMs < 0 {
		return errors.New("payment.processing_delay_ms cannot be negative")
	}
	seen := make(map[string]bool, len(c.Catalog))
	for i, f := range c.Catalog {
		if f.ID == "" {
			return fmt.Errorf("catalog[%d]: id is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("catalog[%d]: duplicate flight id %s", i, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}
