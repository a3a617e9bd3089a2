package main

import (
	"context"
	"fmt"
	"log"

	"github.com/goncalo-araujo/babyshower/internal/assistant"
	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/database"
	"github.com/goncalo-araujo/babyshower/internal/router"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// assistant backend; without an API key the chat degrades to the
	// canned reply instead of refusing to start
	var gen assistant.Generator
	if cfg.Assistant.APIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(context.Background(), cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			logger.Fatal("init assistant", zap.Error(err))
		}
		gen = gemini
	} else {
		logger.Warn("assistant API key not set, chat runs in fallback mode")
	}

	r := router.Setup(cfg, db, logger, gen)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
