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

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/internal/portal/repo"
	"github.com/go-arcade/portal/pkg/id"
	"github.com/go-arcade/portal/pkg/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IntegrationService 集成目录的直接管理入口。
// 除了保存菜单树时的派生同步，集成也可以在这里直接创建，
// 创建成功后立刻注册为 custom 菜单条目。
type IntegrationService struct {
	integrationRepo repo.IIntegrationRepository
	catalog         *CatalogSyncService
	registry        *registry.Registry
}

func NewIntegrationService(
	integrationRepo repo.IIntegrationRepository,
	catalog *CatalogSyncService,
	reg *registry.Registry,
) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		catalog:         catalog,
		registry:        reg,
	}
}

// CreateIntegration 直接创建集成。slug 冲突返回 Conflict。
func (s *IntegrationService) CreateIntegration(req *model.CreateIntegrationReq) (*model.Integration, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: integration slug is empty", model.ErrInvalid)
	}
	if _, ok := model.IntegrationTypeToKind(req.Type); !ok {
		return nil, fmt.Errorf("%w: unknown integration type %q", model.ErrInvalid, req.Type)
	}

	if _, err := s.integrationRepo.GetIntegrationBySlug(slug); err == nil {
		return nil, fmt.Errorf("%w: integration slug %q already exists", model.ErrConflict, slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check integration slug: %w", err)
	}

	config, err := json.Marshal(req.Config)
	if err != nil {
		return nil, fmt.Errorf("marshal integration config: %w", err)
	}
	roles, err := json.Marshal(req.AllowedRoles)
	if err != nil {
		return nil, fmt.Errorf("marshal allowed roles: %w", err)
	}
	permissions, err := json.Marshal(req.RequiredPermissions)
	if err != nil {
		return nil, fmt.Errorf("marshal required permissions: %w", err)
	}

	integration := &model.Integration{
		IntegrationId:       id.GetUUIDWithoutDashes(),
		Slug:                slug,
		Name:                req.Name,
		Type:                req.Type,
		IsEnabled:           model.IntegrationEnabled,
		Order:               req.Order,
		Scope:               req.Scope,
		AllowedRoles:        datatypes.JSON(roles),
		RequiredPermissions: datatypes.JSON(permissions),
		Config:              datatypes.JSON(config),
		MenuId:              req.MenuId,
		MenuItemId:          slug,
	}
	if err := s.integrationRepo.UpsertIntegration(integration); err != nil {
		return nil, fmt.Errorf("create integration %s: %w", slug, err)
	}

	// 直接创建的集成立即成为菜单条目，注册失败不回滚目录行
	if node, err := s.catalog.ReverseMap(integration); err != nil {
		log.Warnw("created integration is not menu-mappable", "slug", slug, "error", err)
	} else if err := s.registry.Register(&registry.Entry{
		Id:      node.Id,
		Name:    integration.Name,
		Kind:    registry.EntryKindCustom,
		Enabled: node.Enabled,
		Order:   node.Order,
		Node:    node,
	}); err != nil {
		log.Warnw("registry register failed for integration", "slug", slug, "error", err)
	}

	return integration, nil
}

// GetIntegration 获取单个集成
func (s *IntegrationService) GetIntegration(slug string) (*model.Integration, error) {
	integration, err := s.integrationRepo.GetIntegrationBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: integration %s", model.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("get integration %s: %w", slug, err)
	}
	return integration, nil
}

// ListIntegrations 列出全部集成
func (s *IntegrationService) ListIntegrations() ([]model.Integration, error) {
	return s.integrationRepo.ListIntegrations()
}

// SetEnabled 切换集成启用状态并镜像到注册表条目
func (s *IntegrationService) SetEnabled(slug string, enabled bool) error {
	isEnabled := model.IntegrationDisabled
	if enabled {
		isEnabled = model.IntegrationEnabled
	}
	if err := s.integrationRepo.SetIntegrationEnabled(slug, isEnabled); err != nil {
		return fmt.Errorf("set integration %s enabled: %w", slug, err)
	}
	if err := s.registry.SetEnabled(slug, enabled); err != nil && !errors.Is(err, model.ErrNotFound) {
		log.Warnw("registry enable mirror failed", "slug", slug, "error", err)
	}
	return nil
}

// CreateVersion 新增嵌入式应用版本记录
func (s *IntegrationService) CreateVersion(integrationId, version, changelog, staticPath string, manifest map[string]any) (*model.IntegrationVersion, error) {
	if version == "" {
		return nil, fmt.Errorf("%w: version is empty", model.ErrInvalid)
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal version manifest: %w", err)
	}
	row := &model.IntegrationVersion{
		VersionId:     id.GetUUIDWithoutDashes(),
		IntegrationId: integrationId,
		Version:       version,
		Changelog:     changelog,
		StaticPath:    staticPath,
		Manifest:      datatypes.JSON(data),
	}
	if err := s.integrationRepo.CreateIntegrationVersion(row); err != nil {
		return nil, fmt.Errorf("create integration version: %w", err)
	}
	return row, nil
}

// ListVersions 列出集成的全部版本
func (s *IntegrationService) ListVersions(integrationId string) ([]model.IntegrationVersion, error) {
	return s.integrationRepo.GetIntegrationVersions(integrationId)
}

// ActivateVersion 切换集成的启用版本
func (s *IntegrationService) ActivateVersion(integrationId, versionId string) error {
	return s.integrationRepo.ActivateIntegrationVersion(integrationId, versionId)
}
