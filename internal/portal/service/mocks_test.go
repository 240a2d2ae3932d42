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
	"context"

	"github.com/go-arcade/portal/internal/portal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type mockMenuConfigRepo struct {
	rows    map[string]*model.MenuConfigModel
	getErr  error
	created []*model.MenuConfigModel
	updated map[string]datatypes.JSON
}

func newMockMenuConfigRepo() *mockMenuConfigRepo {
	return &mockMenuConfigRepo{
		rows:    make(map[string]*model.MenuConfigModel),
		updated: make(map[string]datatypes.JSON),
	}
}

func (m *mockMenuConfigRepo) GetMenuConfig(menuId string, activeOnly bool) (*model.MenuConfigModel, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	row, ok := m.rows[menuId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if activeOnly && row.IsActive != model.MenuConfigActive {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *mockMenuConfigRepo) CreateMenuConfig(cfg *model.MenuConfigModel) error {
	m.created = append(m.created, cfg)
	m.rows[cfg.MenuId] = cfg
	return nil
}

func (m *mockMenuConfigRepo) UpdateMenuConfigItems(menuId string, items datatypes.JSON) error {
	m.updated[menuId] = items
	if row, ok := m.rows[menuId]; ok {
		row.Items = items
	}
	return nil
}

func (m *mockMenuConfigRepo) SetMenuConfigActive(menuId string, isActive int) error {
	if row, ok := m.rows[menuId]; ok {
		row.IsActive = isActive
	}
	return nil
}

type mockIntegrationRepo struct {
	bySlug    map[string]*model.Integration
	upsertErr error
	versions  []*model.IntegrationVersion
}

func newMockIntegrationRepo() *mockIntegrationRepo {
	return &mockIntegrationRepo{
		bySlug: make(map[string]*model.Integration),
	}
}

func (m *mockIntegrationRepo) GetIntegrationBySlug(slug string) (*model.Integration, error) {
	row, ok := m.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *mockIntegrationRepo) GetIntegrationsByMenuId(menuId string) ([]model.Integration, error) {
	var out []model.Integration
	for _, row := range m.bySlug {
		if row.MenuId == menuId {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *mockIntegrationRepo) ListIntegrations() ([]model.Integration, error) {
	var out []model.Integration
	for _, row := range m.bySlug {
		out = append(out, *row)
	}
	return out, nil
}

func (m *mockIntegrationRepo) UpsertIntegration(integration *model.Integration) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	// slug 唯一索引语义：已有行保留原 integration_id
	if prev, ok := m.bySlug[integration.Slug]; ok {
		integration.IntegrationId = prev.IntegrationId
	}
	m.bySlug[integration.Slug] = integration
	return nil
}

func (m *mockIntegrationRepo) SetIntegrationEnabled(slug string, isEnabled int) error {
	if row, ok := m.bySlug[slug]; ok {
		row.IsEnabled = isEnabled
	}
	return nil
}

func (m *mockIntegrationRepo) DeleteIntegrationBySlug(slug string) error {
	delete(m.bySlug, slug)
	return nil
}

func (m *mockIntegrationRepo) CreateIntegrationVersion(version *model.IntegrationVersion) error {
	m.versions = append(m.versions, version)
	return nil
}

func (m *mockIntegrationRepo) GetIntegrationVersions(integrationId string) ([]model.IntegrationVersion, error) {
	var out []model.IntegrationVersion
	for _, v := range m.versions {
		if v.IntegrationId == integrationId {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockIntegrationRepo) GetActiveIntegrationVersion(integrationId string) (*model.IntegrationVersion, error) {
	for _, v := range m.versions {
		if v.IntegrationId == integrationId && v.IsActive == 1 {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIntegrationRepo) ActivateIntegrationVersion(integrationId, versionId string) error {
	for _, v := range m.versions {
		if v.IntegrationId != integrationId {
			continue
		}
		if v.VersionId == versionId {
			v.IsActive = 1
		} else {
			v.IsActive = 0
		}
	}
	return nil
}

type mockRbacRepo struct {
	roles       []string
	permissions []string
	inOrg       bool
	inTeam      bool
	err         error
}

func (m *mockRbacRepo) GetUserRoleIds(userId string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles, nil
}

func (m *mockRbacRepo) GetPermissionsByRoleIds(roleIds []string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.permissions, nil
}

func (m *mockRbacRepo) IsOrganizationMember(userId string) (bool, error) {
	return m.inOrg, m.err
}

func (m *mockRbacRepo) IsTeamMember(userId string) (bool, error) {
	return m.inTeam, m.err
}

type mockIdentityResolver struct {
	uc  *model.UserContext
	err error
}

func (m *mockIdentityResolver) Resolve(ctx context.Context, userId string) (*model.UserContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.uc != nil {
		return m.uc, nil
	}
	return &model.UserContext{UserId: userId}, nil
}
