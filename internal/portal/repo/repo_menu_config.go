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

package repo

import (
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/pkg/database"
	"gorm.io/datatypes"
)

type IMenuConfigRepository interface {
	GetMenuConfig(menuId string, activeOnly bool) (*model.MenuConfigModel, error)
	CreateMenuConfig(cfg *model.MenuConfigModel) error
	UpdateMenuConfigItems(menuId string, items datatypes.JSON) error
	SetMenuConfigActive(menuId string, isActive int) error
}

type MenuConfigRepo struct {
	database.IDatabase
}

func NewMenuConfigRepo(db database.IDatabase) IMenuConfigRepository {
	return &MenuConfigRepo{
		IDatabase: db,
	}
}

// GetMenuConfig 获取菜单配置行，activeOnly 时只返回启用行
func (r *MenuConfigRepo) GetMenuConfig(menuId string, activeOnly bool) (*model.MenuConfigModel, error) {
	var cfg model.MenuConfigModel
	query := r.Database().Where("menu_id = ?", menuId)
	if activeOnly {
		query = query.Where("is_active = ?", model.MenuConfigActive)
	}
	err := query.Order("priority DESC").First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateMenuConfig 创建菜单配置行（首次访问时懒创建）
func (r *MenuConfigRepo) CreateMenuConfig(cfg *model.MenuConfigModel) error {
	return r.Database().Create(cfg).Error
}

// UpdateMenuConfigItems 整体覆盖写入菜单树，保存的内容即权威内容
func (r *MenuConfigRepo) UpdateMenuConfigItems(menuId string, items datatypes.JSON) error {
	return r.Database().Model(&model.MenuConfigModel{}).
		Where("menu_id = ?", menuId).
		Update("items", items).Error
}

// SetMenuConfigActive 切换菜单配置启用状态
func (r *MenuConfigRepo) SetMenuConfigActive(menuId string, isActive int) error {
	return r.Database().Model(&model.MenuConfigModel{}).
		Where("menu_id = ?", menuId).
		Update("is_active", isActive).Error
}
