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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IIntegrationRepository interface {
	GetIntegrationBySlug(slug string) (*model.Integration, error)
	GetIntegrationsByMenuId(menuId string) ([]model.Integration, error)
	ListIntegrations() ([]model.Integration, error)
	UpsertIntegration(integration *model.Integration) error
	SetIntegrationEnabled(slug string, isEnabled int) error
	DeleteIntegrationBySlug(slug string) error

	CreateIntegrationVersion(version *model.IntegrationVersion) error
	GetIntegrationVersions(integrationId string) ([]model.IntegrationVersion, error)
	GetActiveIntegrationVersion(integrationId string) (*model.IntegrationVersion, error)
	ActivateIntegrationVersion(integrationId, versionId string) error
}

type IntegrationRepo struct {
	database.IDatabase
}

func NewIntegrationRepo(db database.IDatabase) IIntegrationRepository {
	return &IntegrationRepo{
		IDatabase: db,
	}
}

// GetIntegrationBySlug 根据 slug 获取集成，slug 与菜单节点 id 一致
func (r *IntegrationRepo) GetIntegrationBySlug(slug string) (*model.Integration, error) {
	var integration model.Integration
	err := r.Database().Where("slug = ?", slug).First(&integration).Error
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

// GetIntegrationsByMenuId 获取挂在指定菜单下的全部集成
func (r *IntegrationRepo) GetIntegrationsByMenuId(menuId string) ([]model.Integration, error) {
	var integrations []model.Integration
	err := r.Database().Where("menu_id = ?", menuId).
		Order("`order` ASC, id ASC").Find(&integrations).Error
	return integrations, err
}

// ListIntegrations 获取全部集成
func (r *IntegrationRepo) ListIntegrations() ([]model.Integration, error) {
	var integrations []model.Integration
	err := r.Database().Order("`order` ASC, id ASC").Find(&integrations).Error
	return integrations, err
}

// UpsertIntegration 以 slug 唯一索引为键原子写入集成。
// 并发保存同一 slug 时由数据库裁决，后写入者覆盖先写入者，不会产生重复行。
func (r *IntegrationRepo) UpsertIntegration(integration *model.Integration) error {
	return r.Database().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "type", "is_enabled", "order", "scope",
			"allowed_roles", "required_permissions", "config",
			"menu_id", "menu_item_id", "menu_parent_item_id",
		}),
	}).Create(integration).Error
}

// SetIntegrationEnabled 切换集成启用状态
func (r *IntegrationRepo) SetIntegrationEnabled(slug string, isEnabled int) error {
	return r.Database().Model(&model.Integration{}).
		Where("slug = ?", slug).
		Update("is_enabled", isEnabled).Error
}

// DeleteIntegrationBySlug 删除集成
func (r *IntegrationRepo) DeleteIntegrationBySlug(slug string) error {
	return r.Database().Where("slug = ?", slug).Delete(&model.Integration{}).Error
}

// CreateIntegrationVersion 新增嵌入式应用版本记录
func (r *IntegrationRepo) CreateIntegrationVersion(version *model.IntegrationVersion) error {
	return r.Database().Create(version).Error
}

// GetIntegrationVersions 获取集成的全部版本，新版本在前
func (r *IntegrationRepo) GetIntegrationVersions(integrationId string) ([]model.IntegrationVersion, error) {
	var versions []model.IntegrationVersion
	err := r.Database().Where("integration_id = ?", integrationId).
		Order("created_at DESC").Find(&versions).Error
	return versions, err
}

// GetActiveIntegrationVersion 获取集成当前启用的版本
func (r *IntegrationRepo) GetActiveIntegrationVersion(integrationId string) (*model.IntegrationVersion, error) {
	var version model.IntegrationVersion
	err := r.Database().Where("integration_id = ? AND is_active = ?", integrationId, 1).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ActivateIntegrationVersion 切换启用版本，同一集成同一时刻只有一个启用版本
func (r *IntegrationRepo) ActivateIntegrationVersion(integrationId, versionId string) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.IntegrationVersion{}).
			Where("integration_id = ?", integrationId).
			Update("is_active", 0).Error; err != nil {
			return err
		}
		return tx.Model(&model.IntegrationVersion{}).
			Where("integration_id = ? AND version_id = ?", integrationId, versionId).
			Update("is_active", 1).Error
	})
}
