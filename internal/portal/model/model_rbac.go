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

// UserRoleBinding 用户角色关联表
type UserRoleBinding struct {
	BaseModel
	UserId     string `gorm:"column:user_id;not null;index" json:"userId"`
	RoleId     string `gorm:"column:role_id;not null;index" json:"roleId"`
	ResourceId string `gorm:"column:resource_id;index" json:"resourceId"` // 组织/团队ID，平台级为空
}

func (UserRoleBinding) TableName() string {
	return "t_user_role_binding"
}

// RolePermission 角色权限关联表
type RolePermission struct {
	BaseModel
	RoleId     string `gorm:"column:role_id;not null;index" json:"roleId"`
	Permission string `gorm:"column:permission;not null" json:"permission"`
}

func (RolePermission) TableName() string {
	return "t_role_permission"
}

// OrganizationMember 组织成员表
type OrganizationMember struct {
	BaseModel
	OrgId  string `gorm:"column:org_id;not null;index" json:"orgId"`
	UserId string `gorm:"column:user_id;not null;index" json:"userId"`
}

func (OrganizationMember) TableName() string {
	return "t_organization_member"
}

// TeamMember 团队成员表
type TeamMember struct {
	BaseModel
	TeamId string `gorm:"column:team_id;not null;index" json:"teamId"`
	UserId string `gorm:"column:user_id;not null;index" json:"userId"`
}

func (TeamMember) TableName() string {
	return "t_team_member"
}

// 内置角色 ID
const (
	Owner  = "owner"  // 组织所有者
	Admin  = "admin"  // 管理员
	Member = "member" // 普通成员
)

// UserContext 一次菜单组合中使用的用户身份快照
type UserContext struct {
	UserId         string   `json:"userId"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
	InOrganization bool     `json:"inOrganization"`
	InTeam         bool     `json:"inTeam"`
}

// HasRole reports whether the user holds the given role.
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user holds the given permission.
func (u *UserContext) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
