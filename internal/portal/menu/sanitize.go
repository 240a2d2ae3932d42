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
	"fmt"
	"strings"

	"github.com/go-arcade/portal/internal/portal/model"
)

// Sanitize 持久化前的规范化：深拷贝输入，去掉 nil 子项、
// 与 kind 不匹配的载荷、空字符串的角色/权限、展示装饰字段。
// 调用方对树的完整性负全责，这里不做任何合并或补齐。
func Sanitize(items []*model.MenuNode) []*model.MenuNode {
	out := make([]*model.MenuNode, 0, len(items))
	for _, n := range items {
		if n == nil {
			continue
		}
		cp := n.Clone()
		sanitizeNode(cp)
		out = append(out, cp)
	}
	return out
}

func sanitizeNode(n *model.MenuNode) {
	n.Id = strings.TrimSpace(n.Id)

	// 展示装饰不入库
	n.Label = ""
	n.Icon = ""

	// 只保留与 kind 匹配的载荷
	if n.Kind != model.MenuKindSystem {
		n.System = nil
	}
	if n.Kind != model.MenuKindExternal {
		n.External = nil
	}
	if n.Kind != model.MenuKindIframe {
		n.Iframe = nil
	}
	if n.Kind != model.MenuKindEmbedded {
		n.Embedded = nil
	}

	n.RequiredRoles = dropEmpty(n.RequiredRoles)
	n.RequiredPermissions = dropEmpty(n.RequiredPermissions)

	children := n.Children[:0]
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		sanitizeNode(c)
		children = append(children, c)
	}
	if len(children) == 0 {
		n.Children = nil
	} else {
		n.Children = children
	}
}

func dropEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ValidateTree 校验每个节点的载荷、整棵树的 id 唯一性；
// 对有内置种子的菜单，还要求必需系统节点最小集仍然存在。
func ValidateTree(menuId string, items []*model.MenuNode) error {
	seen := make(map[string]bool)
	var firstErr error
	model.WalkNodes(items, func(n *model.MenuNode) bool {
		if err := n.Validate(); err != nil {
			firstErr = err
			return false
		}
		if seen[n.Id] {
			firstErr = fmt.Errorf("%w: duplicate menu node id %q", model.ErrInvalid, n.Id)
			return false
		}
		seen[n.Id] = true
		return true
	})
	if firstErr != nil {
		return firstErr
	}

	if KnownMenu(menuId) {
		for _, required := range requiredSystemIds {
			if !seen[required] {
				return fmt.Errorf("%w: required system node %q is missing", model.ErrInvalid, required)
			}
		}
	}
	return nil
}
