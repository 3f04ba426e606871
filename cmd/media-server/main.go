package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/di"
)

func main() {
	logrus.Info("Starting media server...")

	app, err := di.InitializeMediaApp()
	if err != nil {
		logrus.Fatalf("Failed to initialize media server: %v", err)
	}

	common.SetupLogging(app.Config.Logging.Level, app.Config.Logging.Format)

	srv := &http.Server{
		Addr:        app.Config.Server.Host + ":" + app.Config.Server.MediaServicePort,
		Handler:     app.Server.Router(),
		ReadTimeout: time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		// No write timeout: large attachment downloads stream for a while.
	}

	go func() {
		logrus.Infof("Media server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down media server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}
	if err := app.Mongo.Close(ctx); err != nil {
		logrus.Errorf("Mongo close error: %v", err)
	}
	logrus.Info("Media server stopped")
}
