// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/council"
	"github.com/mohanganesh3/fitplanner/internal/experts"
	"github.com/mohanganesh3/fitplanner/internal/fanout"
	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/internal/plan"
	"github.com/mohanganesh3/fitplanner/internal/planner"
	"github.com/mohanganesh3/fitplanner/internal/profile"
	"github.com/mohanganesh3/fitplanner/internal/router"
	"github.com/mohanganesh3/fitplanner/internal/server"
	"github.com/mohanganesh3/fitplanner/internal/wellness"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// app bundles everything a subcommand needs, built once from config.
type app struct {
	planner *planner.Planner
	store   profile.Store
	logger  *zap.Logger
	close   func()
}

func loadConfig() types.PlannerConfig {
	viper.SetDefault("ai.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.timeout", "120s")
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("council.max_workers", fanout.DefaultMaxWorkers)
	viper.SetDefault("profile.store", string(types.StoreMemory))
	viper.SetDefault("profile.db_path", "fitplanner.db")
	viper.SetDefault("profile.confidence_threshold", profile.DefaultConfidenceThreshold)

	ai := types.AIConfig{
		Model:      viper.GetString("ai.model"),
		APIKey:     secretDefault("anthropic-api-key", viper.GetString("ai.api_key")),
		MaxRetries: viper.GetInt("ai.max_retries"),
		Timeout:    viper.GetDuration("ai.timeout"),
	}
	return types.PlannerConfig{
		Server: types.ServerConfig{
			Addr:   viper.GetString("server.addr"),
			APIKey: secretDefault("server-api-key", viper.GetString("server.api_key")),
		},
		Router: types.RouterConfig{AIConfig: ai},
		Council: types.CouncilConfig{
			AIConfig:   ai,
			MaxWorkers: viper.GetInt("council.max_workers"),
		},
		Profile: types.ProfileConfig{
			AIConfig:            ai,
			Store:               types.ProfileStoreKind(viper.GetString("profile.store")),
			DBPath:              viper.GetString("profile.db_path"),
			ConfidenceThreshold: viper.GetFloat64("profile.confidence_threshold"),
		},
	}
}

func newStore(cfg types.ProfileConfig) (profile.Store, func(), error) {
	switch cfg.Store {
	case types.StoreSQLite:
		s, err := profile.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open profile store: %w", err)
		}
		return s, func() { s.Close() }, nil
	case types.StoreMemory, "":
		return profile.NewMemStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile store %q", cfg.Store)
	}
}

func buildApp() (*app, error) {
	cfg := loadConfig()
	if cfg.Router.APIKey == "" {
		return nil, fmt.Errorf("no AI API key: set ai.api_key or .secrets/anthropic-api-key")
	}

	logger, err := zap.NewProduction(zap.WithCaller(false))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	store, closeStore, err := newStore(cfg.Profile)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	completer := llm.NewClaudeClient(cfg.Router.AIConfig)
	exec := fanout.New(cfg.Council.MaxWorkers, logger)

	knowledgeCouncil, err := council.New(completer, experts.Roster(completer), exec, logger)
	if err != nil {
		closeStore()
		logger.Sync()
		return nil, err
	}

	p, err := planner.New(planner.Deps{
		Strategist: router.New(completer, profile.HasInfo, logger),
		Merger:     profile.NewMerger(completer, cfg.Profile.ConfidenceThreshold, logger),
		Store:      store,
		Council:    knowledgeCouncil,
		Plans:      plan.New(completer, exec, logger),
		Wellness:   wellness.New(completer, logger),
		Logger:     logger,
	})
	if err != nil {
		closeStore()
		logger.Sync()
		return nil, err
	}

	return &app{
		planner: p,
		store:   store,
		logger:  logger,
		close: func() {
			closeStore()
			logger.Sync()
		},
	}, nil
}

func newServer(a *app) *server.Server {
	cfg := loadConfig()
	return server.New(cfg.Server, a.planner, a.logger)
}
