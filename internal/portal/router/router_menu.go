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
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/pkg/http"
	"github.com/go-arcade/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// getMenu 获取当前用户可见的菜单树
func (rt *Router) getMenu(c *fiber.Ctx) error {
	menuId := c.Params("menuId")
	locale := c.Query("locale", rt.menuOpts.DefaultLocale)
	userId := middleware.UserIdFromCtx(c)

	items, err := rt.menuService.GetForUser(c.UserContext(), menuId, userId, locale)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, items)
}

// getMenuConfig 管理端读取完整菜单配置
func (rt *Router) getMenuConfig(c *fiber.Ctx) error {
	menuId := c.Params("menuId")
	locale := c.Query("locale", rt.menuOpts.DefaultLocale)

	cfg, err := rt.menuService.GetConfig(c.UserContext(), menuId, locale)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, cfg)
}

type updateMenuConfigReq struct {
	Items []*model.MenuNode `json:"items"`
}

type setMenuActiveReq struct {
	Active bool `json:"active"`
}

// setMenuConfigActive 管理端启停菜单配置
func (rt *Router) setMenuConfigActive(c *fiber.Ctx) error {
	menuId := c.Params("menuId")
	userId := middleware.UserIdFromCtx(c)

	var req setMenuActiveReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.menuService.SetConfigActive(c.UserContext(), menuId, userId, req.Active); err != nil {
		return repErr(c, err)
	}
	return http.WithRepNotDetail(c)
}

// updateMenuConfig 管理端整体覆盖菜单树
func (rt *Router) updateMenuConfig(c *fiber.Ctx) error {
	menuId := c.Params("menuId")
	userId := middleware.UserIdFromCtx(c)

	var req updateMenuConfigReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	cfg, err := rt.menuService.UpdateConfig(c.UserContext(), menuId, userId, req.Items)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, cfg)
}
