package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/config"
	"github.com/Swethakotuluru11/user-dashboard/internal/database"
	"github.com/Swethakotuluru11/user-dashboard/internal/router"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		logger.Fatal("create data dir", zap.Error(err))
	}
	if err := ensureDir(cfg.Upload.Dir); err != nil {
		logger.Fatal("create upload dir", zap.Error(err))
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// session store backend
	var sessions session.Store
	switch cfg.Session.Backend {
	case "redis":
		client, err := session.NewRedisClient(cfg.Session)
		if err != nil {
			logger.Fatal("init redis", zap.Error(err))
		}
		sessions = session.NewRedisStore(client)
	default:
		sessions = session.NewGormStore(db)
	}

	tokens := auth.NewService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	// setup router
	r := router.SetupRouter(cfg, db, sessions, tokens, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
