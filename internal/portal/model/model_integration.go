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

package model

import (
	"gorm.io/datatypes"
)

// Integration 可插拔集成目录表。
// 每一行描述一个外部链接 / iframe / 嵌入式应用，slug 与菜单节点 id 一致且全局唯一。
// 该表是保存非 system 菜单节点时派生出的产物，也可以通过管理接口直接创建。
type Integration struct {
	BaseModel
	IntegrationId       string         `gorm:"column:integration_id;not null;uniqueIndex" json:"integrationId"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"` // == MenuNode.Id
	Name                string         `gorm:"column:name" json:"name"`
	Type                string         `gorm:"column:type;not null" json:"type"` // EXTERNAL_LINK/IFRAME/EMBEDDED_APP
	IsEnabled           int            `gorm:"column:is_enabled;default:1" json:"isEnabled"`
	Order               int            `gorm:"column:order;default:0" json:"order"`
	Scope               string         `gorm:"column:scope" json:"scope"`
	AllowedRoles        datatypes.JSON `gorm:"column:allowed_roles;type:json" json:"allowedRoles"`
	RequiredPermissions datatypes.JSON `gorm:"column:required_permissions;type:json" json:"requiredPermissions"`
	Config              datatypes.JSON `gorm:"column:config;type:json" json:"config"` // kind 专属载荷镜像
	MenuId              string         `gorm:"column:menu_id;index" json:"menuId"`
	MenuItemId          string         `gorm:"column:menu_item_id" json:"menuItemId"`
	MenuParentItemId    string         `gorm:"column:menu_parent_item_id" json:"menuParentItemId"`
}

func (Integration) TableName() string {
	return "t_integration"
}

// IntegrationVersion 嵌入式应用 bundle 的版本记录
type IntegrationVersion struct {
	BaseModel
	VersionId     string         `gorm:"column:version_id;not null;uniqueIndex" json:"versionId"`
	IntegrationId string         `gorm:"column:integration_id;not null;index" json:"integrationId"`
	Version       string         `gorm:"column:version;not null" json:"version"`
	Changelog     string         `gorm:"column:changelog;type:text" json:"changelog"`
	StaticPath    string         `gorm:"column:static_path" json:"staticPath"`
	Manifest      datatypes.JSON `gorm:"column:manifest;type:json" json:"manifest"`
	IsActive      int            `gorm:"column:is_active;default:0" json:"isActive"`
}

func (IntegrationVersion) TableName() string {
	return "t_integration_version"
}

// 集成类型常量，与菜单节点 kind 一一对应
const (
	IntegrationTypeExternalLink = "EXTERNAL_LINK"
	IntegrationTypeIframe       = "IFRAME"
	IntegrationTypeEmbeddedApp  = "EMBEDDED_APP"
)

// 集成启用状态常量
const (
	IntegrationEnabled  = 1 // 启用
	IntegrationDisabled = 0 // 禁用
)

// KindToIntegrationType 菜单节点 kind → 集成类型
func KindToIntegrationType(kind MenuKind) (string, bool) {
	switch kind {
	case MenuKindExternal:
		return IntegrationTypeExternalLink, true
	case MenuKindIframe:
		return IntegrationTypeIframe, true
	case MenuKindEmbedded:
		return IntegrationTypeEmbeddedApp, true
	default:
		return "", false
	}
}

// IntegrationTypeToKind 集成类型 → 菜单节点 kind
func IntegrationTypeToKind(typ string) (MenuKind, bool) {
	switch typ {
	case IntegrationTypeExternalLink:
		return MenuKindExternal, true
	case IntegrationTypeIframe:
		return MenuKindIframe, true
	case IntegrationTypeEmbeddedApp:
		return MenuKindEmbedded, true
	default:
		return "", false
	}
}

// CreateIntegrationReq request for creating integration directly
type CreateIntegrationReq struct {
	Slug                string         `json:"slug"`
	Name                string         `json:"name"`
	Type                string         `json:"type"`
	Order               int            `json:"order"`
	Scope               string         `json:"scope"`
	AllowedRoles        []string       `json:"allowedRoles"`
	RequiredPermissions []string       `json:"requiredPermissions"`
	Config              map[string]any `json:"config"`
	MenuId              string         `json:"menuId"`
}
