package models

import "time"

// Config represents application configuration
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	NSQ        NSQConfig
	JWT        JWTConfig
	Routing    RoutingConfig
	Navigation NavigationConfig
	Inspection InspectionConfig
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains the nsqd address maintenance requests are published to
type NSQConfig struct {
	Address string
	Topic   string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret string
	Issuer string
}

// RoutingConfig contains the directions provider settings
type RoutingConfig struct {
	BaseURL    string
	APIKey     string
	AvoidTolls bool
	Timeout    time.Duration
}

// NavigationConfig holds the tracking thresholds. The defaults come from
// field observation and are not physically derived.
type NavigationConfig struct {
	DeviationThresholdMeters float64
	MinMovingSpeedMps        float64
	SpeedWindow              time.Duration
	HistorySize              int
	StationaryInflation      float64
	TurnDelay                time.Duration
	SignalDelay              time.Duration
	SignalSpacingMeters      float64
	TurnAngleDegrees         float64
	RecalcMinInterval        time.Duration
	RecalcTimeout            time.Duration
	PickupRadiusMeters       float64
	DestinationRadiusMeters  float64
}

// InspectionConfig holds inspection business policy
type InspectionConfig struct {
	// BlockOnPreTripIssue makes pre-trip defects fail the inspection instead
	// of only raising an urgent maintenance request
	BlockOnPreTripIssue bool
}

// RetryConfig bounds the persistence retry loop
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// RateLimitConfig bounds per-driver location ingestion
type RateLimitConfig struct {
	LocationLimit  int
	LocationPeriod time.Duration
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
