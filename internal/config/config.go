package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Redis Configuration (presence store + asynq backend)
	Redis RedisConfig `json:"redis"`

	// Kafka Configuration (chat event bus)
	Kafka KafkaConfig `json:"kafka"`

	// MongoDB Configuration (attachment storage)
	MongoDB MongoConfig `json:"mongodb"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Presence Configuration
	Presence PresenceConfig `json:"presence"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`

	// JWT secret used to validate client tokens (issuance happens elsewhere)
	JWTSecret string `json:"-"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host             string `json:"host"`
	ChatServicePort  string `json:"chat_service_port"`
	NotifServicePort string `json:"notif_service_port"`
	MediaServicePort string `json:"media_service_port"`
	ReadTimeout      int    `json:"read_timeout"`
	WriteTimeout     int    `json:"write_timeout"`
	Environment      string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type KafkaConfig struct {
	Brokers       string `json:"brokers"` // comma separated
	EventTopic    string `json:"event_topic"`
	ConsumerGroup string `json:"consumer_group"`
}

type MongoConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers           int  `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int  `json:"channel_buffer_size"` // Event channel buffer size
	MaxRetries        int  `json:"max_retries"`         // Max retry attempts
	RetryDelay        int  `json:"retry_delay"`         // Seconds
	Enabled           bool `json:"enabled"`
}

// PresenceConfig tunes the presence tracker and typing indicators.
type PresenceConfig struct {
	OfflineDebounce time.Duration `json:"offline_debounce"` // reconnect window before offline broadcast
	TypingTimeout   time.Duration `json:"typing_timeout"`   // typing indicator self-expiry
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// LoadConfig reads configuration from the environment, falling back to a
// .env file when present and to development defaults otherwise.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			ChatServicePort:  getEnv("CHAT_SERVICE_PORT", "7003"),
			NotifServicePort: getEnv("NOTIF_SERVICE_PORT", "7004"),
			MediaServicePort: getEnv("MEDIA_SERVICE_PORT", "8080"),
			ReadTimeout:      getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:     getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:      getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			Username:     getEnv("DB_USER", "chatrelay"),
			Password:     getEnv("DB_PASSWORD", "chatrelay123"),
			DatabaseName: getEnv("DB_NAME", "chatrelay"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
			EventTopic:    getEnv("KAFKA_EVENT_TOPIC", "chat-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "notifs-svc"),
		},
		MongoDB: MongoConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USER", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DB", "chatrelay"),
		},
		Notification: NotificationConfig{
			Workers:           getEnvInt("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvInt("NOTIF_CHANNEL_BUFFER", 1000),
			MaxRetries:        getEnvInt("NOTIF_MAX_RETRIES", 3),
			RetryDelay:        getEnvInt("NOTIF_RETRY_DELAY", 5),
			Enabled:           getEnv("NOTIF_ENABLED", "true") == "true",
		},
		Presence: PresenceConfig{
			OfflineDebounce: time.Duration(getEnvInt("PRESENCE_OFFLINE_DEBOUNCE_SECONDS", 5)) * time.Second,
			TypingTimeout:   time.Duration(getEnvInt("TYPING_TIMEOUT_SECONDS", 3)) * time.Second,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// DSN builds the MySQL connection string.
func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// RedisAddr returns host:port for the go-redis and asynq clients.
func (cfg *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)
}

// MongoURI builds the MongoDB connection URI.
func (cfg *Config) MongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		cfg.MongoDB.Username, cfg.MongoDB.Password, cfg.MongoDB.Host, cfg.MongoDB.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
