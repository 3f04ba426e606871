//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"chatrelay/internal/config"
	"chatrelay/internal/dbmysql"
)

// These are just declarations — wire generates the real bodies.

func InitializeChatApp() (*ChatApplication, error) {
	wire.Build(
		config.LoadConfig,
		dbmysql.NewMySQL,
		ProvideRedisClient,
		ProvidePublisher,
		newChatApplication,
	)
	return &ChatApplication{}, nil
}

func InitializeNotifsApp() (*NotifsApplication, error) {
	wire.Build(
		config.LoadConfig,
		dbmysql.NewMySQL,
		ProvideRedisClient,
		ProvideAsynqClient,
		dbmysql.NewNotificationRepository,
		newNotifsApplication,
	)
	return &NotifsApplication{}, nil
}

func InitializeMediaApp() (*MediaApplication, error) {
	wire.Build(
		config.LoadConfig,
		newMediaApplication,
	)
	return &MediaApplication{}, nil
}
