//go:build wireinject
// +build wireinject

package main

import (
	stdctx "context"

	"github.com/go-arcade/portal/internal/bootstrap"
	"github.com/go-arcade/portal/internal/portal/config"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/internal/portal/repo"
	"github.com/go-arcade/portal/internal/portal/router"
	"github.com/go-arcade/portal/internal/portal/service"
	"github.com/go-arcade/portal/pkg/cache"
	"github.com/go-arcade/portal/pkg/ctx"
	"github.com/go-arcade/portal/pkg/database"
	"github.com/go-arcade/portal/pkg/event"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 基础设施
		log.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		provideContext,
		registry.NewRegistry,
		event.NewEventBus,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}

func provideContext(db *gorm.DB, client *redis.Client, logger *log.Logger) *ctx.Context {
	return ctx.NewContext(stdctx.Background(), db, client, logger.Log)
}
