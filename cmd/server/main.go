package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"dentalab/internal/catalog"
	"dentalab/internal/commons"
	"dentalab/internal/infrastructure/kafka"
	"dentalab/internal/infrastructure/logger"
	"dentalab/internal/infrastructure/mysql"
	"dentalab/internal/infrastructure/tracing"
	"dentalab/internal/inventory"
	"dentalab/internal/order"
	"dentalab/internal/server"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	tracerProvider, shutdownTracing, err := tracing.Setup(context.Background(), cfg.Tracing)
	if err != nil {
		zapLogger.Fatal("setting up tracing", zap.Error(err))
	}
	tracer := tracerProvider.Tracer("dentalab")

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	publisher := kafka.New(cfg.Kafka, zapLogger)
	defer publisher.Close()

	inventoryModule := inventory.NewModule(db, zapLogger, tracer)
	orderCtrl := order.NewModule(db, cfg, inventoryModule.Engine, publisher, zapLogger, tracer)
	catalogCtrl := catalog.NewModule(db, zapLogger)

	router := server.NewRouter(orderCtrl, catalogCtrl, inventoryModule.RepairController, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	if err := shutdownTracing(ctx); err != nil {
		zapLogger.Error("tracing shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
