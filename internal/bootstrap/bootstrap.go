// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"errors"
	"fmt"

	"github.com/go-arcade/portal/internal/portal/config"
	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/menu"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/internal/portal/router"
	"github.com/go-arcade/portal/internal/portal/service"
	"github.com/go-arcade/portal/pkg/ctx"
	"github.com/go-arcade/portal/pkg/event"
	"github.com/go-arcade/portal/pkg/http"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp  *fiber.App
	Logger   *log.Logger
	Registry *registry.Registry
	AppConf  *config.AppConfig
	AppCtx   *ctx.Context
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	appConf *config.AppConfig,
	appCtx *ctx.Context,
	reg *registry.Registry,
	catalog *service.CatalogSyncService,
	eventBus *event.EventBus,
) (*App, func(), error) {
	// 注册表启动序列：系统条目 → 目录回注 → Ready。
	// 系统条目冲突说明种子本身损坏，属于启动失败。
	reg.StartBoot()
	for _, entry := range menu.SeedRegistryEntries(consts.MenuSideNav) {
		if err := reg.Register(entry); err != nil {
			return nil, nil, fmt.Errorf("register system menu entry %s: %w", entry.Id, err)
		}
	}
	for _, ce := range catalog.CatalogEntries(consts.MenuSideNav) {
		err := reg.Register(&registry.Entry{
			Id:       ce.Node.Id,
			Name:     ce.Node.Id,
			Kind:     registry.EntryKindCustom,
			Enabled:  ce.Node.Enabled,
			Order:    ce.Node.Order,
			ParentId: ce.ParentId,
			Node:     ce.Node,
		})
		if err != nil {
			// 目录行与系统条目撞 id 时保留系统条目
			if errors.Is(err, model.ErrConflict) {
				log.Warnw("catalog entry conflicts with registered entry, skipped", "entryId", ce.Node.Id)
				continue
			}
			log.Errorw("catalog entry registration failed", "entryId", ce.Node.Id, "error", err)
		}
	}
	reg.FinishBoot()
	log.Infow("menu registry ready", "entries", reg.Len())

	eventBus.RegisterHandler(consts.EventMenuStructureChange, event.EventHandlerFunc(func(e event.Event) {
		if ev, ok := e.(*service.MenuStructureEvent); ok {
			log.Infow("menu structure changed",
				"menuId", ev.MenuId,
				"changedBy", ev.ChangedBy,
			)
		}
	}))

	app := &App{
		HttpApp:  rt.Router(),
		Logger:   logger,
		Registry: reg,
		AppConf:  appConf,
		AppCtx:   appCtx,
	}

	cleanup := func() {
		if appCtx.GetRedis() != nil {
			if err := appCtx.GetRedis().Close(); err != nil {
				log.Errorf("redis close error: %v", err)
			}
		}
		if appCtx.GetMySQLIns() != nil {
			if sqlDB, err := appCtx.GetMySQLIns().DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Errorf("database close error: %v", err)
				}
			}
		}
	}

	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	// NewHttp 启动监听并返回阻塞等待退出信号的关停钩子
	shutdown := http.NewHttp(app.AppConf.Http, app.HttpApp)
	shutdown()

	cleanup()
	app.Logger.Log.Info("Server shutdown complete")
}
