package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"SERVER_HOST", "CHAT_SERVICE_PORT", "NOTIF_SERVICE_PORT", "MEDIA_SERVICE_PORT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"KAFKA_BROKERS", "KAFKA_EVENT_TOPIC", "KAFKA_CONSUMER_GROUP",
	"MONGO_HOST", "MONGO_PORT", "MONGO_USER", "MONGO_PASSWORD", "MONGO_DB",
	"NOTIF_WORKERS", "NOTIF_CHANNEL_BUFFER", "NOTIF_MAX_RETRIES",
	"PRESENCE_OFFLINE_DEBOUNCE_SECONDS", "TYPING_TIMEOUT_SECONDS",
	"LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET", "ENVIRONMENT",
}

func clearTestEnvVars() {
	for _, key := range testEnvVars {
		os.Unsetenv(key)
	}
}

func TestLoadConfig_DefaultBehavior(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	config := LoadConfig()
	require.NotNil(t, config)

	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, "3306", config.Database.Port)
	assert.Equal(t, "chatrelay", config.Database.Username)
	assert.Equal(t, "chatrelay", config.Database.DatabaseName)
	assert.Equal(t, 25, config.Database.MaxOpenConns)
	assert.Equal(t, 5, config.Database.MaxIdleConns)

	assert.Equal(t, "7003", config.Server.ChatServicePort)
	assert.Equal(t, "7004", config.Server.NotifServicePort)
	assert.Equal(t, "8080", config.Server.MediaServicePort)
	assert.Equal(t, "development", config.Server.Environment)

	assert.Equal(t, "localhost", config.Redis.Host)
	assert.Equal(t, "6379", config.Redis.Port)

	assert.Equal(t, "localhost:9092", config.Kafka.Brokers)
	assert.Equal(t, "chat-events", config.Kafka.EventTopic)
	assert.Equal(t, "notifs-svc", config.Kafka.ConsumerGroup)

	assert.Equal(t, "localhost", config.MongoDB.Host)
	assert.Equal(t, "27017", config.MongoDB.Port)
	assert.Equal(t, "chatrelay", config.MongoDB.Database)

	assert.Equal(t, 5, config.Notification.Workers)
	assert.Equal(t, 1000, config.Notification.ChannelBufferSize)
	assert.Equal(t, 3, config.Notification.MaxRetries)
	assert.True(t, config.Notification.Enabled)

	assert.Equal(t, 5*time.Second, config.Presence.OfflineDebounce)
	assert.Equal(t, 3*time.Second, config.Presence.TypingTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("CHAT_SERVICE_PORT", "9100")
	os.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	os.Setenv("PRESENCE_OFFLINE_DEBOUNCE_SECONDS", "10")
	os.Setenv("TYPING_TIMEOUT_SECONDS", "2")
	os.Setenv("JWT_SECRET", "test-secret")

	config := LoadConfig()

	assert.Equal(t, "db.internal", config.Database.Host)
	assert.Equal(t, 50, config.Database.MaxOpenConns)
	assert.Equal(t, "9100", config.Server.ChatServicePort)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", config.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, config.Presence.OfflineDebounce)
	assert.Equal(t, 2*time.Second, config.Presence.TypingTimeout)
	assert.Equal(t, "test-secret", config.JWTSecret)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	os.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	config := LoadConfig()
	assert.Equal(t, 25, config.Database.MaxOpenConns)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:         "db.internal",
			Port:         "3307",
			Username:     "svc",
			Password:     "pw",
			DatabaseName: "chat",
		},
	}

	dsn := cfg.DSN()
	assert.Equal(t, "svc:pw@tcp(db.internal:3307)/chat?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestConfig_DSN_DefaultsHostAndPort(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Username:     "svc",
			Password:     "pw",
			DatabaseName: "chat",
		},
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "@tcp(localhost:3306)/chat")
}

func TestConfig_MongoURI(t *testing.T) {
	cfg := &Config{
		MongoDB: MongoConfig{Host: "mongo", Port: "27017", Username: "u", Password: "p"},
	}
	assert.Equal(t, "mongodb://u:p@mongo:27017", cfg.MongoURI())

	cfg.MongoDB.Username = ""
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI())
}

func TestConfig_RedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "redis", Port: "6380"}}
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
}
