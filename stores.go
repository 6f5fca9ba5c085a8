package main

import (
	"context"
	"fmt"

	"registration-service/config"
	"registration-service/database"
	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/infra/mail"
	"registration-service/internal/infra/memory"
	"registration-service/internal/infra/postgres"
	"registration-service/internal/infra/redisstore"
	"registration-service/internal/logging"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func buildStores(ctx context.Context, cfg *config.Config) (users.Directory, tokens.Store, func(), error) {
	var (
		directory users.Directory
		db        *gorm.DB
		closers   []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		var err error
		db, err = database.Open(cfg.DBURL)
		if err != nil {
			return nil, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, sqlDB.Close)
		if err := database.Migrate(db); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		directory = postgres.NewDirectory(db)
	case config.BackendMemory:
		directory = memory.NewDirectory()
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	var store tokens.Store
	switch cfg.TokenBackend {
	case config.BackendPostgres:
		store = postgres.NewTokenStore(db)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = redisstore.NewTokenStore(client, "rtk", redisstore.DefaultRetention)
	case config.BackendMemory:
		store = memory.NewTokenStore(directory)
	default:
		closeAll()
		return nil, nil, nil, fmt.Errorf("unknown token backend %q", cfg.TokenBackend)
	}

	return directory, store, closeAll, nil
}

func buildNotifier(cfg *config.Config, log logging.Logger) mail.Notifier {
	smtpCfg := mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
	}
	if smtpCfg.Enabled() {
		return mail.NewSMTPNotifier(smtpCfg, log)
	}
	return mail.NewLogNotifier(log)
}
