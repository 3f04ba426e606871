package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/di"
	"chatrelay/internal/hub"
)

func main() {
	logrus.Info("Starting chat service...")

	app, err := di.InitializeChatApp()
	if err != nil {
		logrus.Fatalf("Failed to initialize chat service: %v", err)
	}

	common.SetupLogging(app.Config.Logging.Level, app.Config.Logging.Format)

	if err := dbmysql.Migrate(app.DB); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	logrus.Info("Database migration completed")

	if app.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(common.AuthMiddleware(app.Config.JWTSecret))
	app.RoomHandler.RegisterRoutes(api)
	app.MessageHandler.RegisterRoutes(api)

	router.GET("/ws", hub.ServeWS(app.Hub, app.Config.JWTSecret))

	// Forward notification pushes published by notifs-svc to connected clients.
	subCtx, stopSub := context.WithCancel(context.Background())
	go app.Subscriber.Run(subCtx)

	srv := &http.Server{
		Addr:         app.Config.Server.Host + ":" + app.Config.Server.ChatServicePort,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logrus.Infof("Chat service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down chat service...")
	stopSub()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	app.Typing.Shutdown()
	app.Presence.Stop()
	if err := app.Publisher.Close(); err != nil {
		logrus.Errorf("Publisher close error: %v", err)
	}
	if err := app.Redis.Close(); err != nil {
		logrus.Errorf("Redis close error: %v", err)
	}
	logrus.Info("Chat service stopped")
}
