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

package router

import (
	"errors"
	"time"

	"github.com/go-arcade/portal/internal/portal/config"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/service"
	"github.com/go-arcade/portal/pkg/http"
	"github.com/go-arcade/portal/pkg/http/middleware"
	"github.com/go-arcade/portal/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Http               *http.Http
	menuOpts           *config.MenuOptions
	menuService        *service.MenuService
	integrationService *service.IntegrationService
}

func NewRouter(
	httpConf *http.Http,
	menuOpts *config.MenuOptions,
	menuService *service.MenuService,
	integrationService *service.IntegrationService,
) *Router {
	return &Router{
		Http:               httpConf,
		menuOpts:           menuOpts,
		menuService:        menuService,
		integrationService: integrationService,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Arcade Portal",
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.CorsMiddleware(),
	)

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	menu := api.Group("/menu", auth)
	{
		menu.Get("/:menuId", rt.getMenu)
		menu.Get("/:menuId/config", rt.getMenuConfig)
		menu.Put("/:menuId/config", rt.updateMenuConfig)
		menu.Post("/:menuId/active", rt.setMenuConfigActive)
	}

	integration := api.Group("/integration", auth)
	{
		integration.Get("/list", rt.listIntegrations)
		integration.Post("/add", rt.createIntegration)
		integration.Get("/:slug", rt.getIntegration)
		integration.Post("/:slug/enabled", rt.setIntegrationEnabled)
		integration.Get("/:slug/versions", rt.listIntegrationVersions)
		integration.Post("/:slug/versions", rt.createIntegrationVersion)
		integration.Post("/:slug/versions/:versionId/activate", rt.activateIntegrationVersion)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).
			JSON(http.WithRepErrMsg(c, http.NotFound.Code, http.NotFound.Msg, c.Path()))
	})

	return app
}

// repErr 把服务层哨兵错误映射为响应码
func repErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.WithRepErrMsg(c, http.NotFound.Code, err.Error(), c.Path())
	case errors.Is(err, model.ErrForbidden):
		return http.WithRepErrMsg(c, http.Forbidden.Code, err.Error(), c.Path())
	case errors.Is(err, model.ErrConflict):
		return http.WithRepErrMsg(c, http.Conflict.Code, err.Error(), c.Path())
	case errors.Is(err, model.ErrInvalid):
		return http.WithRepErrMsg(c, http.InvalidPayload.Code, err.Error(), c.Path())
	default:
		return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
	}
}
