package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"estate-reconciliation-backend/internal/config"
	"estate-reconciliation-backend/internal/logging"
	"estate-reconciliation-backend/internal/routes"
	"estate-reconciliation-backend/internal/tracing"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	shutdown, err := tracing.Init(context.Background(), "estate-reconciliation-backend", cfg.OTLPEndpoint)
	if err != nil {
		logrus.WithError(err).Fatal("initialising tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("flushing traces")
		}
	}()

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("connecting to database")
	}

	r := gin.Default()
	r.Use(otelgin.Middleware("estate-reconciliation-backend"))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Operator"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg)

	logrus.WithField("port", cfg.Port).Info("reconciliation server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}
