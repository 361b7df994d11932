package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cleanshop/cart/pkg/config"
)

// Open builds the backend named by cfg.Backend. The returned close func
// releases connections and files; it is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (Slot, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return NewMemorySlot(), noop, nil

	case "bunt", "":
		slot, err := OpenBuntSlot(cfg.BuntPath)
		if err != nil {
			return nil, noop, err
		}
		log.Info("cart storage opened", "backend", "bunt", "path", cfg.BuntPath)
		return slot, slot.Close, nil

	case "sqlite":
		slot, err := OpenSQLiteSlot(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		log.Info("cart storage opened", "backend", "sqlite", "path", cfg.SQLitePath)
		return slot, slot.Close, nil

	case "redis":
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		log.Info("cart storage opened", "backend", "redis", "addr", cfg.RedisAddr)
		return wrapRemote(NewRedisSlot(client, cfg.RedisTTL), "redis", cfg, log), client.Close, nil

	case "mongo", "mongodb":
		db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, noop, err
		}
		log.Info("cart storage opened", "backend", "mongo", "database", cfg.MongoDBName)
		closeFn := func() error { return db.Client().Disconnect(context.Background()) }
		return wrapRemote(NewMongoSlot(db), "mongo", cfg, log), closeFn, nil

	default:
		return nil, noop, fmt.Errorf("unknown cart storage backend %q", cfg.Backend)
	}
}

func wrapRemote(slot Slot, name string, cfg config.StorageConfig, log *slog.Logger) Slot {
	if !cfg.Breaker {
		return slot
	}
	return NewBreakerSlot(slot, "cart-storage-"+name, log)
}
