package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Matching MatchingConfig
	Logging  LoggingConfig

	QuestionnairePath string
	GeminiAPIKey      string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret     string
	AccessExpiryMin  int
	RefreshExpiryDay int
}

// MatchingConfig groups the tunables of the scoring and connection flows.
type MatchingConfig struct {
	// NearbyRadiusKm is used when a location report does not carry its own radius.
	NearbyRadiusKm float64
	// ConnectionTTL is how long a pending connection stays open.
	ConnectionTTL time.Duration
	// RecommendThreshold classifies a pair as "recommend" when the friendship
	// score exceeds it.
	RecommendThreshold float64
	// GateEnabled makes proximity-triggered connection creation consult the
	// compatibility scorer first. Off by default: the baseline flow connects
	// every nearby user unconditionally.
	GateEnabled   bool
	GateThreshold float64
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("CONNECTION_TTL_MIN", 60)
	viper.SetDefault("NEARBY_RADIUS_KM", 0.1)
	viper.SetDefault("RECOMMEND_THRESHOLD", 0.9)
	viper.SetDefault("MATCH_GATE_ENABLED", false)
	viper.SetDefault("MATCH_GATE_THRESHOLD", 0.9)
	viper.SetDefault("QUESTIONNAIRE_PATH", "data/personality_test.json")
	viper.SetDefault("JWT_ACCESS_EXPIRY_MIN", 60)
	viper.SetDefault("JWT_REFRESH_EXPIRY_DAY", 30)

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:     viper.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin:  viper.GetInt("JWT_ACCESS_EXPIRY_MIN"),
			RefreshExpiryDay: viper.GetInt("JWT_REFRESH_EXPIRY_DAY"),
		},
		Matching: MatchingConfig{
			NearbyRadiusKm:     viper.GetFloat64("NEARBY_RADIUS_KM"),
			ConnectionTTL:      time.Duration(viper.GetInt("CONNECTION_TTL_MIN")) * time.Minute,
			RecommendThreshold: viper.GetFloat64("RECOMMEND_THRESHOLD"),
			GateEnabled:        viper.GetBool("MATCH_GATE_ENABLED"),
			GateThreshold:      viper.GetFloat64("MATCH_GATE_THRESHOLD"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		QuestionnairePath: viper.GetString("QUESTIONNAIRE_PATH"),
		GeminiAPIKey:      viper.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.Matching.NearbyRadiusKm <= 0 {
		return fmt.Errorf("nearby radius must be positive")
	}
	if c.Matching.ConnectionTTL <= 0 {
		return fmt.Errorf("connection TTL must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
