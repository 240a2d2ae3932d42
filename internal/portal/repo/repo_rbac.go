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
)

type IRbacRepository interface {
	GetUserRoleIds(userId string) ([]string, error)
	GetPermissionsByRoleIds(roleIds []string) ([]string, error)
	IsOrganizationMember(userId string) (bool, error)
	IsTeamMember(userId string) (bool, error)
}

type RbacRepo struct {
	database.IDatabase
}

func NewRbacRepo(db database.IDatabase) IRbacRepository {
	return &RbacRepo{
		IDatabase: db,
	}
}

// GetUserRoleIds 获取用户全部角色ID（平台级与资源级合并去重）
func (r *RbacRepo) GetUserRoleIds(userId string) ([]string, error) {
	var bindings []model.UserRoleBinding
	err := r.Database().Select("role_id").
		Where("user_id = ?", userId).Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(bindings))
	roleIds := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if _, ok := seen[b.RoleId]; ok {
			continue
		}
		seen[b.RoleId] = struct{}{}
		roleIds = append(roleIds, b.RoleId)
	}
	return roleIds, nil
}

// GetPermissionsByRoleIds 获取角色集合对应的全部权限点
func (r *RbacRepo) GetPermissionsByRoleIds(roleIds []string) ([]string, error) {
	if len(roleIds) == 0 {
		return []string{}, nil
	}
	var rows []model.RolePermission
	err := r.Database().Select("permission").
		Where("role_id IN ?", roleIds).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	permissions := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Permission]; ok {
			continue
		}
		seen[row.Permission] = struct{}{}
		permissions = append(permissions, row.Permission)
	}
	return permissions, nil
}

// IsOrganizationMember 用户是否属于任一组织
func (r *RbacRepo) IsOrganizationMember(userId string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.OrganizationMember{}).
		Where("user_id = ?", userId).Count(&count).Error
	return count > 0, err
}

// IsTeamMember 用户是否属于任一团队
func (r *RbacRepo) IsTeamMember(userId string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.TeamMember{}).
		Where("user_id = ?", userId).Count(&count).Error
	return count > 0, err
}
