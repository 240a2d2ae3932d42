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
	"github.com/gofiber/fiber/v2"
)

// listIntegrations 列出全部集成
func (rt *Router) listIntegrations(c *fiber.Ctx) error {
	integrations, err := rt.integrationService.ListIntegrations()
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, integrations)
}

// createIntegration 直接创建集成
func (rt *Router) createIntegration(c *fiber.Ctx) error {
	var req model.CreateIntegrationReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	integration, err := rt.integrationService.CreateIntegration(&req)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, integration)
}

// getIntegration 获取单个集成
func (rt *Router) getIntegration(c *fiber.Ctx) error {
	integration, err := rt.integrationService.GetIntegration(c.Params("slug"))
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, integration)
}

type setEnabledReq struct {
	Enabled bool `json:"enabled"`
}

// setIntegrationEnabled 切换集成启用状态
func (rt *Router) setIntegrationEnabled(c *fiber.Ctx) error {
	var req setEnabledReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.integrationService.SetEnabled(c.Params("slug"), req.Enabled); err != nil {
		return repErr(c, err)
	}
	return http.WithRepNotDetail(c)
}

// listIntegrationVersions 列出集成的版本记录
func (rt *Router) listIntegrationVersions(c *fiber.Ctx) error {
	integration, err := rt.integrationService.GetIntegration(c.Params("slug"))
	if err != nil {
		return repErr(c, err)
	}
	versions, err := rt.integrationService.ListVersions(integration.IntegrationId)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, versions)
}

type createVersionReq struct {
	Version    string         `json:"version"`
	Changelog  string         `json:"changelog"`
	StaticPath string         `json:"staticPath"`
	Manifest   map[string]any `json:"manifest"`
}

// createIntegrationVersion 新增版本记录
func (rt *Router) createIntegrationVersion(c *fiber.Ctx) error {
	integration, err := rt.integrationService.GetIntegration(c.Params("slug"))
	if err != nil {
		return repErr(c, err)
	}

	var req createVersionReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	version, err := rt.integrationService.CreateVersion(integration.IntegrationId, req.Version, req.Changelog, req.StaticPath, req.Manifest)
	if err != nil {
		return repErr(c, err)
	}
	return http.WithRepJSON(c, version)
}

// activateIntegrationVersion 切换启用版本
func (rt *Router) activateIntegrationVersion(c *fiber.Ctx) error {
	integration, err := rt.integrationService.GetIntegration(c.Params("slug"))
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.integrationService.ActivateVersion(integration.IntegrationId, c.Params("versionId")); err != nil {
		return repErr(c, err)
	}
	return http.WithRepNotDetail(c)
}
