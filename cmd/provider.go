package cmd

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
	"lever/internal/engine"
	"lever/service/oracle"
	"lever/service/policy"
	"lever/store/state"
)

func provideDatabase() *db.DB {
	database, err := db.Open(cfg.DB)
	if err != nil {
		panic(err)
	}

	return database
}

func provideStateStore(database *db.DB) core.IStateStore {
	return state.New(database)
}

func providePriceFeed() *oracle.PriceFeed {
	return oracle.New(cfg.Oracle)
}

func providePolicy() core.IRiskPolicy {
	return policy.New(cfg.Policy)
}

func provideEngine(ctx context.Context, store core.IStateStore, feed core.IPriceFeed) core.IEngine {
	loaded, err := store.Load(ctx)
	if err != nil {
		panic(err)
	}

	opts := []engine.Option{}
	if cfg.App.TickRatio.Sign() > 0 {
		opts = append(opts, engine.WithTickRatio(cfg.App.TickRatio))
	}

	return engine.New(loaded, feed, providePolicy(), opts...)
}
