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

	"github.com/go-arcade/portal/internal/portal/menu"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/internal/portal/repo"
	"github.com/go-arcade/portal/pkg/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MenuConfigStore 菜单配置的读写入口。
// 读路径永不让存储故障冒泡成错误页：行缺失时懒创建，
// 数据库不可用时回退到注册表派生树或内置种子。
type MenuConfigStore struct {
	menuConfigRepo repo.IMenuConfigRepository
	registry       *registry.Registry
}

func NewMenuConfigStore(menuConfigRepo repo.IMenuConfigRepository, reg *registry.Registry) *MenuConfigStore {
	return &MenuConfigStore{
		menuConfigRepo: menuConfigRepo,
		registry:       reg,
	}
}

// Load 读取菜单配置。activeOnly 时只返回启用行（用户读路径），
// 管理端传 false 以读到停用行。行真正不存在时回退链为：
// 注册表派生树（已 Ready）→ 编译期种子；两者都为空才返回 NotFound。
// 懒创建只发生在行确实不存在时，读路径永不改写既有配置。
func (s *MenuConfigStore) Load(menuId string, activeOnly bool) (*model.MenuConfig, error) {
	row, err := s.menuConfigRepo.GetMenuConfig(menuId, activeOnly)
	if err == nil {
		return s.toConfig(row)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		items := s.defaultItems(menuId)
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: load menu config %s: %v", model.ErrUnavailable, menuId, err)
		}
		log.Errorw("load menu config failed, falling back to defaults", "menuId", menuId, "error", err)
		return s.defaultConfig(menuId, items), nil
	}

	items := s.defaultItems(menuId)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: menu config %s", model.ErrNotFound, menuId)
	}

	// 过滤条件下未命中不代表行不存在：停用行也算存在，不能再落一行
	if activeOnly && s.rowExists(menuId) {
		return s.defaultConfig(menuId, items), nil
	}

	if menu.KnownMenu(menuId) {
		// 首次访问，落一行默认配置；失败不影响本次返回
		if createErr := s.create(menuId, items); createErr != nil {
			log.Errorw("lazy-create menu config failed", "menuId", menuId, "error", createErr)
		}
	}
	return s.defaultConfig(menuId, items), nil
}

// SetActive 切换配置行的启用状态，行不存在返回 NotFound
func (s *MenuConfigStore) SetActive(menuId string, active bool) error {
	if _, err := s.menuConfigRepo.GetMenuConfig(menuId, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: menu config %s", model.ErrNotFound, menuId)
		}
		return fmt.Errorf("set menu config active %s: %w", menuId, err)
	}
	isActive := model.MenuConfigInactive
	if active {
		isActive = model.MenuConfigActive
	}
	if err := s.menuConfigRepo.SetMenuConfigActive(menuId, isActive); err != nil {
		return fmt.Errorf("set menu config active %s: %w", menuId, err)
	}
	return nil
}

// Persist 整体覆盖写入菜单树。保存的内容即权威内容，
// 这里只做规范化与校验，不与旧树合并。
func (s *MenuConfigStore) Persist(menuId string, items []*model.MenuNode) ([]*model.MenuNode, error) {
	sanitized := menu.Sanitize(items)
	if err := menu.ValidateTree(menuId, sanitized); err != nil {
		return nil, err
	}

	data, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("marshal menu items: %w", err)
	}

	if _, err := s.menuConfigRepo.GetMenuConfig(menuId, false); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("persist menu config %s: %w", menuId, err)
		}
		if err := s.create(menuId, sanitized); err != nil {
			return nil, fmt.Errorf("persist menu config %s: %w", menuId, err)
		}
		return sanitized, nil
	}

	if err := s.menuConfigRepo.UpdateMenuConfigItems(menuId, datatypes.JSON(data)); err != nil {
		return nil, fmt.Errorf("persist menu config %s: %w", menuId, err)
	}
	return sanitized, nil
}

// defaultItems 优先用注册表派生树（包含目录回注的 custom 条目），
// 注册表未 Ready 时退回编译期种子。
func (s *MenuConfigStore) defaultItems(menuId string) []*model.MenuNode {
	if s.registry != nil && s.registry.Ready() {
		if derived := s.registry.DerivedTree(); len(derived) > 0 {
			return derived
		}
	}
	return menu.SeedItems(menuId)
}

func (s *MenuConfigStore) defaultConfig(menuId string, items []*model.MenuNode) *model.MenuConfig {
	return &model.MenuConfig{
		MenuId:   menuId,
		Name:     menuId,
		Items:    items,
		IsActive: true,
	}
}

func (s *MenuConfigStore) rowExists(menuId string) bool {
	_, err := s.menuConfigRepo.GetMenuConfig(menuId, false)
	return err == nil
}

func (s *MenuConfigStore) create(menuId string, items []*model.MenuNode) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu items: %w", err)
	}
	return s.menuConfigRepo.CreateMenuConfig(&model.MenuConfigModel{
		MenuId:   menuId,
		Name:     menuId,
		Items:    datatypes.JSON(data),
		IsActive: model.MenuConfigActive,
	})
}

func (s *MenuConfigStore) toConfig(row *model.MenuConfigModel) (*model.MenuConfig, error) {
	var items []*model.MenuNode
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal menu config %s: %w", row.MenuId, err)
		}
	}
	var metadata map[string]any
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			log.Warnw("menu config metadata is not valid json", "menuId", row.MenuId, "error", err)
		}
	}
	return &model.MenuConfig{
		MenuId:   row.MenuId,
		Name:     row.Name,
		Items:    items,
		Priority: row.Priority,
		IsActive: row.IsActive == model.MenuConfigActive,
		Metadata: metadata,
	}, nil
}
