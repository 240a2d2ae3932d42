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
	"fmt"

	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/repo"
	"github.com/go-arcade/portal/pkg/id"
	"github.com/go-arcade/portal/pkg/log"
	"gorm.io/datatypes"
)

// CatalogSyncService 把菜单树中的非 system 节点同步进集成目录。
// slug == 节点 id，是两边关联的唯一键；同步是逐节点 upsert，
// 不删除目录中已不在树上的行（目录行可能被其他菜单引用）。
type CatalogSyncService struct {
	integrationRepo repo.IIntegrationRepository
}

func NewCatalogSyncService(integrationRepo repo.IIntegrationRepository) *CatalogSyncService {
	return &CatalogSyncService{
		integrationRepo: integrationRepo,
	}
}

// SyncFromTree 遍历保存后的菜单树，把每个非 system 节点写入目录。
// 单个节点失败只记录日志，不中断其余节点，也不回滚已写入的行。
func (s *CatalogSyncService) SyncFromTree(menuId string, items []*model.MenuNode) {
	var walk func(nodes []*model.MenuNode, parentId string)
	walk = func(nodes []*model.MenuNode, parentId string) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if n.Kind != model.MenuKindSystem {
				if err := s.reconcileNode(menuId, parentId, n); err != nil {
					log.Errorw("catalog sync failed for node",
						"menuId", menuId,
						"nodeId", n.Id,
						"error", err,
					)
				}
			}
			walk(n.Children, n.Id)
		}
	}
	walk(items, "")
}

// reconcileNode 把一个非 system 节点物化为目录行并原子写入
func (s *CatalogSyncService) reconcileNode(menuId, parentId string, n *model.MenuNode) error {
	typ, ok := model.KindToIntegrationType(n.Kind)
	if !ok {
		return fmt.Errorf("%w: node %s: kind %q has no catalog mapping", model.ErrInvalid, n.Id, n.Kind)
	}

	config, err := nodeConfig(n)
	if err != nil {
		return err
	}

	isEnabled := model.IntegrationDisabled
	if n.Enabled {
		isEnabled = model.IntegrationEnabled
	}

	roles, err := json.Marshal(n.RequiredRoles)
	if err != nil {
		return fmt.Errorf("marshal allowed roles: %w", err)
	}
	permissions, err := json.Marshal(n.RequiredPermissions)
	if err != nil {
		return fmt.Errorf("marshal required permissions: %w", err)
	}

	return s.integrationRepo.UpsertIntegration(&model.Integration{
		IntegrationId:       id.GetUUIDWithoutDashes(),
		Slug:                n.Id,
		Name:                n.Id,
		Type:                typ,
		IsEnabled:           isEnabled,
		Order:               n.Order,
		AllowedRoles:        datatypes.JSON(roles),
		RequiredPermissions: datatypes.JSON(permissions),
		Config:              datatypes.JSON(config),
		MenuId:              menuId,
		MenuItemId:          n.Id,
		MenuParentItemId:    parentId,
	})
}

// nodeConfig 把 kind 专属载荷镜像为目录行的 config JSON
func nodeConfig(n *model.MenuNode) ([]byte, error) {
	var config map[string]any
	switch n.Kind {
	case model.MenuKindExternal:
		config = map[string]any{
			"url":          n.External.Url,
			"openInNewTab": n.External.OpenInNewTab,
		}
	case model.MenuKindIframe:
		config = map[string]any{
			"url": n.Iframe.Url,
		}
		if n.Iframe.EmbedCode != "" {
			config["embedCode"] = n.Iframe.EmbedCode
		}
		if n.Iframe.Path != "" {
			config["path"] = n.Iframe.Path
		}
	case model.MenuKindEmbedded:
		config = map[string]any{
			"entryUrl":   n.Embedded.EntryUrl,
			"launchMode": "remote_url",
		}
		if n.Embedded.Path != "" {
			config["path"] = n.Embedded.Path
		}
	default:
		return nil, fmt.Errorf("%w: node %s: kind %q has no config mapping", model.ErrInvalid, n.Id, n.Kind)
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal node config: %w", err)
	}
	return data, nil
}

// ReverseMap 把目录行还原为菜单节点，供启动时回注注册表
func (s *CatalogSyncService) ReverseMap(integration *model.Integration) (*model.MenuNode, error) {
	kind, ok := model.IntegrationTypeToKind(integration.Type)
	if !ok {
		return nil, fmt.Errorf("%w: integration %s: unknown type %q", model.ErrInvalid, integration.Slug, integration.Type)
	}

	var config map[string]any
	if len(integration.Config) > 0 {
		if err := json.Unmarshal(integration.Config, &config); err != nil {
			return nil, fmt.Errorf("unmarshal integration %s config: %w", integration.Slug, err)
		}
	}

	node := &model.MenuNode{
		Id:      integration.Slug,
		Kind:    kind,
		Enabled: integration.IsEnabled == model.IntegrationEnabled,
		Order:   integration.Order,
	}

	if len(integration.AllowedRoles) > 0 {
		if err := json.Unmarshal(integration.AllowedRoles, &node.RequiredRoles); err != nil {
			return nil, fmt.Errorf("unmarshal integration %s roles: %w", integration.Slug, err)
		}
	}
	if len(integration.RequiredPermissions) > 0 {
		if err := json.Unmarshal(integration.RequiredPermissions, &node.RequiredPermissions); err != nil {
			return nil, fmt.Errorf("unmarshal integration %s permissions: %w", integration.Slug, err)
		}
	}

	switch kind {
	case model.MenuKindExternal:
		node.External = &model.ExternalPayload{
			Url:          stringValue(config, "url"),
			OpenInNewTab: boolValue(config, "openInNewTab"),
		}
	case model.MenuKindIframe:
		node.Iframe = &model.IframePayload{
			Url:       stringValue(config, "url"),
			EmbedCode: stringValue(config, "embedCode"),
			Path:      stringValue(config, "path"),
		}
	case model.MenuKindEmbedded:
		node.Embedded = &model.EmbeddedPayload{
			EntryUrl: stringValue(config, "entryUrl"),
			Path:     stringValue(config, "path"),
		}
	}

	if err := node.Validate(); err != nil {
		return nil, err
	}
	return node, nil
}

// CatalogEntries 把目录全量还原为注册表可用的节点集合。
// 还原失败的行跳过并记录日志，不中断启动。
func (s *CatalogSyncService) CatalogEntries(menuId string) []*CatalogEntry {
	integrations, err := s.integrationRepo.GetIntegrationsByMenuId(menuId)
	if err != nil {
		log.Errorw("list catalog integrations failed", "menuId", menuId, "error", err)
		return nil
	}

	entries := make([]*CatalogEntry, 0, len(integrations))
	for i := range integrations {
		integration := &integrations[i]
		node, err := s.ReverseMap(integration)
		if err != nil {
			log.Warnw("skip unmappable catalog integration",
				"slug", integration.Slug,
				"error", err,
			)
			continue
		}
		entries = append(entries, &CatalogEntry{
			Node:     node,
			ParentId: integration.MenuParentItemId,
		})
	}
	return entries
}

// CatalogEntry 目录还原结果，ParentId 来自目录行记录的挂载点
type CatalogEntry struct {
	Node     *model.MenuNode
	ParentId string
}

func stringValue(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolValue(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
