package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration from the environment. In the local
// environment a dotenv file at configPath is loaded first.
func InitConfig(configPath string) *models.Config {
	v := newViper()
	if v.GetString("APP_ENV") == "local" {
		// Load config from file
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "fleetnav-trips")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "development")

	v.SetDefault("SERVER_PORT", 9990)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NSQ_ADDRESS", "localhost:4150")
	v.SetDefault("NSQ_TOPIC", "maintenance_requests")

	v.SetDefault("JWT_ISSUER", "fleetnav")

	v.SetDefault("ROUTING_BASE_URL", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("ROUTING_AVOID_TOLLS", false)
	v.SetDefault("ROUTING_TIMEOUT", 10*time.Second)

	nav := DefaultNavigationConfig()
	v.SetDefault("NAV_DEVIATION_THRESHOLD_M", nav.DeviationThresholdMeters)
	v.SetDefault("NAV_MIN_MOVING_SPEED_MPS", nav.MinMovingSpeedMps)
	v.SetDefault("NAV_SPEED_WINDOW", nav.SpeedWindow)
	v.SetDefault("NAV_HISTORY_SIZE", nav.HistorySize)
	v.SetDefault("NAV_STATIONARY_INFLATION", nav.StationaryInflation)
	v.SetDefault("NAV_TURN_DELAY", nav.TurnDelay)
	v.SetDefault("NAV_SIGNAL_DELAY", nav.SignalDelay)
	v.SetDefault("NAV_SIGNAL_SPACING_M", nav.SignalSpacingMeters)
	v.SetDefault("NAV_TURN_ANGLE_DEG", nav.TurnAngleDegrees)
	v.SetDefault("NAV_RECALC_MIN_INTERVAL", nav.RecalcMinInterval)
	v.SetDefault("NAV_RECALC_TIMEOUT", nav.RecalcTimeout)
	v.SetDefault("NAV_PICKUP_RADIUS_M", nav.PickupRadiusMeters)
	v.SetDefault("NAV_DESTINATION_RADIUS_M", nav.DestinationRadiusMeters)

	v.SetDefault("INSPECTION_BLOCK_ON_PRETRIP_ISSUE", false)

	v.SetDefault("RETRY_MAX_RETRIES", 3)
	v.SetDefault("RETRY_BASE_DELAY", 100*time.Millisecond)
	v.SetDefault("RETRY_MAX_DELAY", 5*time.Second)

	v.SetDefault("RATE_LIMIT_LOCATIONS", 120)
	v.SetDefault("RATE_LIMIT_LOCATIONS_PERIOD", time.Minute)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_PATH", "")
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	// Database config
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// Messaging
	configs.NATS.URL = v.GetString("NATS_URL")
	configs.NSQ.Address = v.GetString("NSQ_ADDRESS")
	configs.NSQ.Topic = v.GetString("NSQ_TOPIC")

	// JWT config
	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Routing provider
	configs.Routing.BaseURL = v.GetString("ROUTING_BASE_URL")
	configs.Routing.APIKey = v.GetString("ROUTING_API_KEY")
	configs.Routing.AvoidTolls = v.GetBool("ROUTING_AVOID_TOLLS")
	configs.Routing.Timeout = v.GetDuration("ROUTING_TIMEOUT")

	// Navigation thresholds
	configs.Navigation = models.NavigationConfig{
		DeviationThresholdMeters: v.GetFloat64("NAV_DEVIATION_THRESHOLD_M"),
		MinMovingSpeedMps:        v.GetFloat64("NAV_MIN_MOVING_SPEED_MPS"),
		SpeedWindow:              v.GetDuration("NAV_SPEED_WINDOW"),
		HistorySize:              v.GetInt("NAV_HISTORY_SIZE"),
		StationaryInflation:      v.GetFloat64("NAV_STATIONARY_INFLATION"),
		TurnDelay:                v.GetDuration("NAV_TURN_DELAY"),
		SignalDelay:              v.GetDuration("NAV_SIGNAL_DELAY"),
		SignalSpacingMeters:      v.GetFloat64("NAV_SIGNAL_SPACING_M"),
		TurnAngleDegrees:         v.GetFloat64("NAV_TURN_ANGLE_DEG"),
		RecalcMinInterval:        v.GetDuration("NAV_RECALC_MIN_INTERVAL"),
		RecalcTimeout:            v.GetDuration("NAV_RECALC_TIMEOUT"),
		PickupRadiusMeters:       v.GetFloat64("NAV_PICKUP_RADIUS_M"),
		DestinationRadiusMeters:  v.GetFloat64("NAV_DESTINATION_RADIUS_M"),
	}

	configs.Inspection.BlockOnPreTripIssue = v.GetBool("INSPECTION_BLOCK_ON_PRETRIP_ISSUE")

	configs.Retry.MaxRetries = v.GetInt("RETRY_MAX_RETRIES")
	configs.Retry.BaseDelay = v.GetDuration("RETRY_BASE_DELAY")
	configs.Retry.MaxDelay = v.GetDuration("RETRY_MAX_DELAY")

	configs.RateLimit.LocationLimit = v.GetInt("RATE_LIMIT_LOCATIONS")
	configs.RateLimit.LocationPeriod = v.GetDuration("RATE_LIMIT_LOCATIONS_PERIOD")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	return configs
}

// DefaultNavigationConfig returns the observed production thresholds
func DefaultNavigationConfig() models.NavigationConfig {
	return models.NavigationConfig{
		DeviationThresholdMeters: 50,
		MinMovingSpeedMps:        1.0,
		SpeedWindow:              60 * time.Second,
		HistorySize:              5,
		StationaryInflation:      1.10,
		TurnDelay:                15 * time.Second,
		SignalDelay:              30 * time.Second,
		SignalSpacingMeters:      500,
		TurnAngleDegrees:         30,
		RecalcMinInterval:        15 * time.Second,
		RecalcTimeout:            10 * time.Second,
		PickupRadiusMeters:       100,
		DestinationRadiusMeters:  100,
	}
}
