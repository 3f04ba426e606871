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
)

func main() {
	logrus.Info("Starting notification service...")

	app, err := di.InitializeNotifsApp()
	if err != nil {
		logrus.Fatalf("Failed to initialize notification service: %v", err)
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
	app.Handler.RegisterRoutes(api)

	// Kafka consumer turns chat events into stored notifications.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go func() {
		if err := app.Consumer.Run(consumerCtx); err != nil && consumerCtx.Err() == nil {
			logrus.Fatalf("Event consumer failed: %v", err)
		}
	}()

	// Asynq worker delivers scheduled notifications when they come due.
	go func() {
		if err := app.WorkerServer.Run(app.WorkerMux); err != nil {
			logrus.Fatalf("Worker server failed: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:         app.Config.Server.Host + ":" + app.Config.Server.NotifServicePort,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logrus.Infof("Notification service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down notification service...")
	stopConsumer()
	app.WorkerServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	app.Service.Shutdown()
	if err := app.AsynqClient.Close(); err != nil {
		logrus.Errorf("Asynq client close error: %v", err)
	}
	if err := app.Redis.Close(); err != nil {
		logrus.Errorf("Redis close error: %v", err)
	}
	logrus.Info("Notification service stopped")
}
