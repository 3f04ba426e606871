// Package di wires the deployables together. Run `wire ./internal/di` after
// changing providers.
package di

import (
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"chatrelay/internal/config"
	"chatrelay/internal/dbmongo"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/events"
	"chatrelay/internal/hub"
	"chatrelay/internal/media"
	"chatrelay/internal/message"
	"chatrelay/internal/notif"
	"chatrelay/internal/presence"
	"chatrelay/internal/room"
	"chatrelay/internal/typing"
)

// ChatApplication bundles everything the chat service needs.
type ChatApplication struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Hub       *hub.Hub
	Publisher events.Publisher

	Rooms    room.Service
	Messages message.Service
	Presence *presence.Tracker
	Typing   *typing.Tracker

	RoomHandler    *room.Handler
	MessageHandler *message.Handler

	// Subscriber forwards cross-service notification pushes to the hub.
	Subscriber *notif.Subscriber
}

// NotifsApplication bundles everything the notification service needs.
type NotifsApplication struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Repo    dbmysql.NotificationRepository
	Service *notif.NotificationService
	Handler *notif.Handler

	Consumer     *events.Consumer
	WorkerServer *asynq.Server
	WorkerMux    *asynq.ServeMux

	AsynqClient *asynq.Client
}

// MediaApplication bundles the attachment server.
type MediaApplication struct {
	Config *config.Config
	Mongo  *dbmongo.MongoClient
	Server *media.HTTPServer
}

func ProvideRedisClient(cnf *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cnf.RedisAddr(),
		Password: cnf.Redis.Password,
		DB:       cnf.Redis.DB,
	})
}

func ProvidePublisher(cnf *config.Config) events.Publisher {
	return events.NewKafkaPublisher(cnf.Kafka.Brokers, cnf.Kafka.EventTopic)
}

func ProvideAsynqClient(cnf *config.Config) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cnf.RedisAddr(),
		Password: cnf.Redis.Password,
		DB:       cnf.Redis.DB,
	})
}

// newChatApplication builds the chat service graph. The hub implements
// common.RoomBroadcaster for every service, and the services route the hub's
// inbound frames, so the hub is bound to its dependencies after construction.
func newChatApplication(cnf *config.Config, db *gorm.DB, redisClient *redis.Client, publisher events.Publisher) (*ChatApplication, error) {
	h := hub.NewHub()
	locks := room.NewLocks()

	roomRepo := room.NewRepository(db)
	rooms := room.NewService(roomRepo, locks, h, publisher)

	messageRepo := message.NewRepository(db)
	messages := message.NewService(messageRepo, rooms, locks, h, publisher)

	presenceStore := presence.NewRedisStore(redisClient)
	presenceTracker := presence.NewTracker(presenceStore, rooms, h, cnf.Presence.OfflineDebounce)

	typingTracker := typing.NewTracker(h, cnf.Presence.TypingTimeout)

	h.Bind(hub.Deps{
		Messages: messages,
		Rooms:    rooms,
		Typing:   typingTracker,
		Presence: presenceTracker,
	})

	return &ChatApplication{
		Config:         cnf,
		DB:             db,
		Redis:          redisClient,
		Hub:            h,
		Publisher:      publisher,
		Rooms:          rooms,
		Messages:       messages,
		Presence:       presenceTracker,
		Typing:         typingTracker,
		RoomHandler:    room.NewHandler(rooms),
		MessageHandler: message.NewHandler(messages),
		Subscriber:     notif.NewSubscriber(redisClient, h),
	}, nil
}

func newNotifsApplication(
	cnf *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	asynqClient *asynq.Client,
	repo dbmysql.NotificationRepository,
) (*NotifsApplication, error) {
	scheduler := notif.NewScheduler(asynqClient)
	pusher := notif.NewRedisPusher(redisClient)

	service := notif.NewNotificationService(cnf, repo, scheduler, pusher)
	handler := notif.NewHandler(service)

	eventHandler := notif.NewChatEventHandler(service, room.NewRepository(db))
	consumer := events.NewConsumer(cnf.Kafka.Brokers, cnf.Kafka.ConsumerGroup, cnf.Kafka.EventTopic, eventHandler.Handle)

	workerServer := notif.NewWorkerServer(cnf.RedisAddr(), cnf.Redis.Password, cnf.Redis.DB, cnf.Notification.Workers)
	workerMux := notif.NewWorkerMux(notif.NewDeliverHandler(repo, pusher))

	return &NotifsApplication{
		Config:       cnf,
		DB:           db,
		Redis:        redisClient,
		Repo:         repo,
		Service:      service,
		Handler:      handler,
		Consumer:     consumer,
		WorkerServer: workerServer,
		WorkerMux:    workerMux,
		AsynqClient:  asynqClient,
	}, nil
}

func newMediaApplication(cnf *config.Config) (*MediaApplication, error) {
	mongoClient, err := dbmongo.NewMongoConnection(cnf)
	if err != nil {
		return nil, err
	}

	return &MediaApplication{
		Config: cnf,
		Mongo:  mongoClient,
		Server: media.NewHTTPServer(mongoClient, cnf.JWTSecret),
	}, nil
}
