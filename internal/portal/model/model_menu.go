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
	"fmt"

	"gorm.io/datatypes"
)

// MenuKind 菜单节点类型
type MenuKind string

const (
	MenuKindSystem   MenuKind = "system"   // 系统内置页面
	MenuKindExternal MenuKind = "external" // 外部链接
	MenuKindIframe   MenuKind = "iframe"   // iframe 嵌入
	MenuKindEmbedded MenuKind = "embedded" // 嵌入式应用
)

// SystemPayload 系统页面节点的载荷
type SystemPayload struct {
	SystemId string `json:"systemId"`
	Path     string `json:"path"`
	Icon     string `json:"icon,omitempty"`
	Label    string `json:"label,omitempty"`
	LabelRu  string `json:"labelRu,omitempty"`
	LabelEn  string `json:"labelEn,omitempty"`
}

// ExternalPayload 外部链接节点的载荷
type ExternalPayload struct {
	Url          string `json:"url"`
	OpenInNewTab bool   `json:"openInNewTab"`
}

// IframePayload iframe 节点的载荷
type IframePayload struct {
	Url       string `json:"url"`
	EmbedCode string `json:"embedCode,omitempty"`
	Path      string `json:"path,omitempty"`
}

// EmbeddedPayload 嵌入式应用节点的载荷
type EmbeddedPayload struct {
	EntryUrl string `json:"entryUrl"`
	Path     string `json:"path,omitempty"`
}

// VisibilityConditions 节点可见性条件，每个已设置的键独立生效
type VisibilityConditions struct {
	Role           string `json:"role,omitempty"`
	Permission     string `json:"permission,omitempty"`
	InOrganization *bool  `json:"inOrganization,omitempty"`
	InTeam         *bool  `json:"inTeam,omitempty"`
}

// MenuNode 导航树中的一个节点。
// Id 在整棵树内唯一，是 registry / integration 关联的外键；
// Kind 创建后不可变，载荷字段与 Kind 一一对应（kind 判别式 + 专属载荷）。
type MenuNode struct {
	Id      string   `json:"id"`
	Kind    MenuKind `json:"kind"`
	Enabled bool     `json:"enabled"`
	Order   int      `json:"order"`

	Children []*MenuNode `json:"children,omitempty"`

	RequiredRoles       []string              `json:"requiredRoles,omitempty"`
	RequiredPermissions []string              `json:"requiredPermissions,omitempty"`
	Conditions          *VisibilityConditions `json:"conditions,omitempty"`

	System   *SystemPayload   `json:"system,omitempty"`
	External *ExternalPayload `json:"external,omitempty"`
	Iframe   *IframePayload   `json:"iframe,omitempty"`
	Embedded *EmbeddedPayload `json:"embedded,omitempty"`

	// 展示装饰字段，持久化前会被清除
	Label string `json:"label,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Validate 校验节点类型与载荷是否匹配
func (n *MenuNode) Validate() error {
	if n.Id == "" {
		return fmt.Errorf("%w: menu node id is empty", ErrInvalid)
	}
	switch n.Kind {
	case MenuKindSystem:
		if n.System == nil {
			return fmt.Errorf("%w: node %s: system payload is required", ErrInvalid, n.Id)
		}
	case MenuKindExternal:
		if n.External == nil || n.External.Url == "" {
			return fmt.Errorf("%w: node %s: external url is required", ErrInvalid, n.Id)
		}
	case MenuKindIframe:
		if n.Iframe == nil || n.Iframe.Url == "" {
			return fmt.Errorf("%w: node %s: iframe url is required", ErrInvalid, n.Id)
		}
	case MenuKindEmbedded:
		if n.Embedded == nil || n.Embedded.EntryUrl == "" {
			return fmt.Errorf("%w: node %s: embedded entry url is required", ErrInvalid, n.Id)
		}
	default:
		return fmt.Errorf("%w: node %s: unknown kind %q", ErrInvalid, n.Id, n.Kind)
	}
	return nil
}

// Clone 深拷贝节点及其子树
func (n *MenuNode) Clone() *MenuNode {
	if n == nil {
		return nil
	}
	cp := *n
	if n.System != nil {
		s := *n.System
		cp.System = &s
	}
	if n.External != nil {
		e := *n.External
		cp.External = &e
	}
	if n.Iframe != nil {
		f := *n.Iframe
		cp.Iframe = &f
	}
	if n.Embedded != nil {
		e := *n.Embedded
		cp.Embedded = &e
	}
	if n.Conditions != nil {
		c := *n.Conditions
		cp.Conditions = &c
	}
	cp.RequiredRoles = append([]string(nil), n.RequiredRoles...)
	cp.RequiredPermissions = append([]string(nil), n.RequiredPermissions...)
	cp.Children = CloneNodes(n.Children)
	return &cp
}

// CloneNodes 深拷贝节点切片
func CloneNodes(nodes []*MenuNode) []*MenuNode {
	if nodes == nil {
		return nil
	}
	out := make([]*MenuNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Clone())
	}
	return out
}

// WalkNodes 深度优先遍历整棵树，fn 返回 false 时提前终止
func WalkNodes(nodes []*MenuNode, fn func(node *MenuNode) bool) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(n) {
			return false
		}
		if !WalkNodes(n.Children, fn) {
			return false
		}
	}
	return true
}

// MenuConfigModel 持久化的菜单配置（每个 menuId 一行，首次访问时懒创建）
type MenuConfigModel struct {
	BaseModel
	MenuId     string         `gorm:"column:menu_id;not null;uniqueIndex" json:"menuId"`
	Name       string         `gorm:"column:name" json:"name"`
	Items      datatypes.JSON `gorm:"column:items;type:json" json:"items"`
	Conditions datatypes.JSON `gorm:"column:conditions;type:json" json:"conditions"`
	Priority   int            `gorm:"column:priority;default:0" json:"priority"`
	IsActive   int            `gorm:"column:is_active;default:1" json:"isActive"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:json" json:"metadata"`
}

func (MenuConfigModel) TableName() string {
	return "t_menu_config"
}

// 菜单配置启用状态常量
const (
	MenuConfigActive   = 1 // 启用
	MenuConfigInactive = 0 // 停用
)

// MenuConfig 菜单配置 DTO（API 形态，items 已反序列化为树）
type MenuConfig struct {
	MenuId   string         `json:"menuId"`
	Name     string         `json:"name"`
	Items    []*MenuNode    `json:"items"`
	Priority int            `json:"priority"`
	IsActive bool           `json:"isActive"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
