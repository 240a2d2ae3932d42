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

package menu

import (
	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
)

// 编译期内置的默认导航树。部署后首次读取、以及读路径降级时使用。
var seeds = map[string][]*model.MenuNode{
	consts.MenuSideNav: {
		{
			Id:      "dashboard",
			Kind:    model.MenuKindSystem,
			Enabled: true,
			Order:   10,
			System: &model.SystemPayload{
				SystemId: "dashboard",
				Path:     "/dashboard",
				Icon:     "dashboard",
				LabelEn:  "Dashboard",
				LabelRu:  "Панель управления",
			},
		},
		{
			Id:      "projects",
			Kind:    model.MenuKindSystem,
			Enabled: true,
			Order:   20,
			System: &model.SystemPayload{
				SystemId: "projects",
				Path:     "/projects",
				Icon:     "folder",
				LabelEn:  "Projects",
				LabelRu:  "Проекты",
			},
		},
		{
			Id:      "integrations",
			Kind:    model.MenuKindSystem,
			Enabled: true,
			Order:   30,
			RequiredRoles: []string{
				model.Admin, model.Owner,
			},
			System: &model.SystemPayload{
				SystemId: "integrations",
				Path:     "/integrations",
				Icon:     "plug",
				LabelEn:  "Integrations",
				LabelRu:  "Интеграции",
			},
		},
		{
			Id:      "settings",
			Kind:    model.MenuKindSystem,
			Enabled: true,
			Order:   90,
			System: &model.SystemPayload{
				SystemId: "settings",
				Path:     "/settings",
				Icon:     "gear",
				LabelEn:  "Settings",
				LabelRu:  "Настройки",
			},
			Children: []*model.MenuNode{
				{
					Id:      "settings-members",
					Kind:    model.MenuKindSystem,
					Enabled: true,
					Order:   10,
					RequiredRoles: []string{
						model.Admin, model.Owner,
					},
					System: &model.SystemPayload{
						SystemId: "settings-members",
						Path:     "/settings/members",
						Icon:     "users",
						LabelEn:  "Members",
						LabelRu:  "Участники",
					},
				},
			},
		},
	},
}

// 管理端保存后仍必须存在的系统节点最小集，缺失即拒绝写入
var requiredSystemIds = []string{"dashboard", "settings"}

// KnownMenu reports whether a compiled-in seed exists for the menu id.
func KnownMenu(menuId string) bool {
	_, ok := seeds[menuId]
	return ok
}

// SeedItems 返回内置默认树的深拷贝
func SeedItems(menuId string) []*model.MenuNode {
	items, ok := seeds[menuId]
	if !ok {
		return nil
	}
	return model.CloneNodes(items)
}

// RequiredSystemIds 返回必须始终存在的系统节点 id 集合
func RequiredSystemIds() []string {
	return append([]string(nil), requiredSystemIds...)
}

// SeedRegistryEntries 把内置默认树展开为注册表的系统条目
func SeedRegistryEntries(menuId string) []*registry.Entry {
	var entries []*registry.Entry
	var expand func(nodes []*model.MenuNode, parentId string)
	expand = func(nodes []*model.MenuNode, parentId string) {
		for _, n := range nodes {
			entries = append(entries, &registry.Entry{
				Id:       n.Id,
				Name:     n.Id,
				Kind:     registry.EntryKindSystem,
				Enabled:  n.Enabled,
				Order:    n.Order,
				ParentId: parentId,
				Node:     n.Clone(),
			})
			expand(n.Children, n.Id)
		}
	}
	expand(SeedItems(menuId), "")
	return entries
}
