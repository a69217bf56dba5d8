package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty-backend/pkg/container"
	"realty-backend/pkg/logger"
)

// Serve builds the dependency graph, starts the HTTP server and blocks
// until SIGINT/SIGTERM, then drains in-flight requests.
func Serve() {
	app, err := container.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	router := SetupRouter(app)

	srv := &http.Server{
		Addr:           ":" + app.Config.App.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("server starting", map[string]interface{}{
			"port":        app.Config.App.Port,
			"environment": app.Config.App.Environment,
		})

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shut down", err)
	}

	logger.Info("server exited", nil)
}
