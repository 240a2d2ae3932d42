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
	"github.com/go-arcade/portal/internal/portal/model"
)

// CanSee 判定用户能否看到单个节点：三项检查取与，
// 输入为空的检查视为通过。
func CanSee(node *model.MenuNode, uc *model.UserContext) bool {
	if len(node.RequiredRoles) > 0 && !intersects(node.RequiredRoles, uc.Roles) {
		return false
	}
	if len(node.RequiredPermissions) > 0 && !intersects(node.RequiredPermissions, uc.Permissions) {
		return false
	}
	return conditionsPass(node.Conditions, uc)
}

// conditionsPass 条件表中每个已设置的键独立生效，全部通过才可见
func conditionsPass(cond *model.VisibilityConditions, uc *model.UserContext) bool {
	if cond == nil {
		return true
	}
	if cond.Role != "" && !uc.HasRole(cond.Role) {
		return false
	}
	if cond.Permission != "" && !uc.HasPermission(cond.Permission) {
		return false
	}
	if cond.InOrganization != nil && *cond.InOrganization != uc.InOrganization {
		return false
	}
	if cond.InTeam != nil && *cond.InTeam != uc.InTeam {
		return false
	}
	return true
}

// ApplyVisibility 面向最终用户的树过滤。
// 自底向上先过滤子节点，再对（已过滤的）节点本身做 CanSee；
// enabled=false 的节点无条件丢弃；CanSee 失败的节点即使还有
// 可见子节点也整体丢弃；子节点全部被滤掉的节点本身不会因此被剪掉。
func ApplyVisibility(items []*model.MenuNode, uc *model.UserContext) []*model.MenuNode {
	out := make([]*model.MenuNode, 0, len(items))
	for _, n := range items {
		if n == nil || !n.Enabled {
			continue
		}
		cp := n.Clone()
		cp.Children = ApplyVisibility(cp.Children, uc)
		if !CanSee(cp, uc) {
			continue
		}
		out = append(out, cp)
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
