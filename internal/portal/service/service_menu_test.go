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
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/menu"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bootedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	reg.StartBoot()
	for _, entry := range menu.SeedRegistryEntries(consts.MenuSideNav) {
		require.NoError(t, reg.Register(entry))
	}
	reg.FinishBoot()
	return reg
}

func newMenuService(cfgRepo *mockMenuConfigRepo, intRepo *mockIntegrationRepo, identity IIdentityResolver, reg *registry.Registry, bus *event.EventBus) *MenuService {
	store := NewMenuConfigStore(cfgRepo, reg)
	catalog := NewCatalogSyncService(intRepo)
	return NewMenuService(store, catalog, identity, reg, nil, bus)
}

func menuRow(t *testing.T, menuId string, isActive int, items []*model.MenuNode) *model.MenuConfigModel {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	return &model.MenuConfigModel{
		MenuId:   menuId,
		Name:     menuId,
		Items:    data,
		IsActive: isActive,
	}
}

func findNode(items []*model.MenuNode, id string) *model.MenuNode {
	var found *model.MenuNode
	model.WalkNodes(items, func(n *model.MenuNode) bool {
		if n.Id == id {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestGetForUserFiltersByRole(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "u1", Roles: []string{model.Member},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	items, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)

	assert.NotNil(t, findNode(items, "dashboard"))
	// integrations 节点要求 admin/owner
	assert.Nil(t, findNode(items, "integrations"))
}

func TestGetForUserIdentityFailureIsSoft(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{err: errors.New("rbac store down")}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	items, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)

	// 匿名身份：无角色要求的节点仍可见，带角色门槛的节点被过滤
	assert.NotNil(t, findNode(items, "dashboard"))
	assert.Nil(t, findNode(items, "integrations"))
}

func TestGetForUserStorageFailureFallsBackToDefaults(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	cfgRepo.getErr = errors.New("connection refused")
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "u1", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	items, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)
	assert.NotNil(t, findNode(items, "dashboard"))
}

func TestGetForUserDecoratesLabels(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	items, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleRu)
	require.NoError(t, err)
	dashboard := findNode(items, "dashboard")
	require.NotNil(t, dashboard)
	assert.Equal(t, "Панель управления", dashboard.Label)
}

func TestGetForUserPublishesRenderEvents(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	bus := event.NewEventBus()

	var names []string
	capture := event.EventHandlerFunc(func(e event.Event) {
		names = append(names, e.EventName())
	})
	bus.RegisterHandler(consts.EventMenuBeforeRender, capture)
	bus.RegisterHandler(consts.EventMenuAfterRender, capture)

	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, bus)
	_, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)

	require.Len(t, names, 2)
	assert.Equal(t, consts.EventMenuBeforeRender, names[0])
	assert.Equal(t, consts.EventMenuAfterRender, names[1])
}

func TestGetConfigLazyCreatesRow(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, event.NewEventBus())

	cfg, err := svc.GetConfig(context.Background(), consts.MenuSideNav, menu.LocaleEn)
	require.NoError(t, err)
	assert.Equal(t, consts.MenuSideNav, cfg.MenuId)
	assert.NotEmpty(t, cfg.Items)
	require.Len(t, cfgRepo.created, 1)
	assert.Equal(t, consts.MenuSideNav, cfgRepo.created[0].MenuId)
}

func TestGetConfigReadsInactiveRow(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	row := menuRow(t, consts.MenuSideNav, model.MenuConfigInactive, []*model.MenuNode{{
		Id: "custom-marker", Kind: model.MenuKindExternal, Enabled: true, Order: 1,
		External: &model.ExternalPayload{Url: "https://example.com"},
	}})
	cfgRepo.rows[consts.MenuSideNav] = row
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, event.NewEventBus())

	cfg, err := svc.GetConfig(context.Background(), consts.MenuSideNav, menu.LocaleEn)
	require.NoError(t, err)

	// 管理端读到的是落库的树本身，而不是默认树
	assert.NotNil(t, findNode(cfg.Items, "custom-marker"))
	assert.False(t, cfg.IsActive)
	// 读路径不改写既有配置
	assert.Empty(t, cfgRepo.created)
}

func TestGetForUserInactiveRowFallsBackWithoutCreate(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	row := menuRow(t, consts.MenuSideNav, model.MenuConfigInactive, []*model.MenuNode{{
		Id: "custom-marker", Kind: model.MenuKindExternal, Enabled: true, Order: 1,
		External: &model.ExternalPayload{Url: "https://example.com"},
	}})
	cfgRepo.rows[consts.MenuSideNav] = row
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, event.NewEventBus())

	items, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)

	// 停用行对用户表现为默认树，且不会在已有行上再落一行
	assert.NotNil(t, findNode(items, "dashboard"))
	assert.Nil(t, findNode(items, "custom-marker"))
	assert.Empty(t, cfgRepo.created)
}

func TestGetConfigUnknownMenuFallsBackToDerivedTree(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, event.NewEventBus())

	cfg, err := svc.GetConfig(context.Background(), "team-nav", menu.LocaleEn)
	require.NoError(t, err)
	assert.NotNil(t, findNode(cfg.Items, "dashboard"))
	// 没有内置种子的菜单不懒创建
	assert.Empty(t, cfgRepo.created)
}

func TestGetConfigUnknownMenuNotFound(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	// 注册表未 Ready，也没有内置种子，无可回退的默认树
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, registry.NewRegistry(), event.NewEventBus())

	_, err := svc.GetConfig(context.Background(), "no-such-menu", menu.LocaleEn)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetForUserUnknownMenuComposesEmptyTree(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	cfgRepo.getErr = errors.New("connection refused")
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, registry.NewRegistry(), event.NewEventBus())

	// 存储故障 + 无默认树：用户读路径降级为空树而不是错误
	items, err := svc.GetForUser(context.Background(), "no-such-menu", "u1", menu.LocaleEn)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetConfigPublishesRenderEvents(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	bus := event.NewEventBus()

	var events []*MenuRenderEvent
	capture := event.EventHandlerFunc(func(e event.Event) {
		if re, ok := e.(*MenuRenderEvent); ok {
			events = append(events, re)
		}
	})
	bus.RegisterHandler(consts.EventMenuBeforeRender, capture)
	bus.RegisterHandler(consts.EventMenuAfterRender, capture)

	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, bus)
	_, err := svc.GetConfig(context.Background(), consts.MenuSideNav, menu.LocaleEn)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, consts.EventMenuBeforeRender, events[0].Name)
	assert.Equal(t, consts.EventMenuAfterRender, events[1].Name)
	// 事件携带当次的树快照
	assert.NotNil(t, findNode(events[0].Items, "dashboard"))
	assert.NotNil(t, findNode(events[1].Items, "dashboard"))
}

func TestGetConfigSeedsEmptyRow(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	cfgRepo.rows[consts.MenuSideNav] = menuRow(t, consts.MenuSideNav, model.MenuConfigActive, nil)
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), &mockIdentityResolver{}, reg, event.NewEventBus())

	cfg, err := svc.GetConfig(context.Background(), consts.MenuSideNav, menu.LocaleEn)
	require.NoError(t, err)

	// 空树的既有行用派生树播种并持久化
	assert.NotNil(t, findNode(cfg.Items, "dashboard"))
	_, persisted := cfgRepo.updated[consts.MenuSideNav]
	assert.True(t, persisted)
}

func TestGetForUserIsIdempotent(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "u1", Roles: []string{model.Member},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	first, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)
	second, err := svc.GetForUser(context.Background(), consts.MenuSideNav, "u1", menu.LocaleEn)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
	// 懒创建只发生一次
	require.Len(t, cfgRepo.created, 1)
}

func TestSetConfigActiveRequiresAdmin(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	cfgRepo.rows[consts.MenuSideNav] = menuRow(t, consts.MenuSideNav, model.MenuConfigActive, menu.SeedItems(consts.MenuSideNav))
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "u1", Roles: []string{model.Member},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, bootedRegistry(t), event.NewEventBus())

	err := svc.SetConfigActive(context.Background(), consts.MenuSideNav, "u1", false)
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Equal(t, model.MenuConfigActive, cfgRepo.rows[consts.MenuSideNav].IsActive)
}

func TestSetConfigActiveTogglesRow(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	cfgRepo.rows[consts.MenuSideNav] = menuRow(t, consts.MenuSideNav, model.MenuConfigActive, menu.SeedItems(consts.MenuSideNav))
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, bootedRegistry(t), event.NewEventBus())

	require.NoError(t, svc.SetConfigActive(context.Background(), consts.MenuSideNav, "admin", false))
	assert.Equal(t, model.MenuConfigInactive, cfgRepo.rows[consts.MenuSideNav].IsActive)

	require.NoError(t, svc.SetConfigActive(context.Background(), consts.MenuSideNav, "admin", true))
	assert.Equal(t, model.MenuConfigActive, cfgRepo.rows[consts.MenuSideNav].IsActive)
}

func TestSetConfigActiveMissingRowNotFound(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, bootedRegistry(t), event.NewEventBus())

	err := svc.SetConfigActive(context.Background(), consts.MenuSideNav, "admin", false)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateConfigRequiresAdmin(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "u1", Roles: []string{model.Member},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	_, err := svc.UpdateConfig(context.Background(), consts.MenuSideNav, "u1", menu.SeedItems(consts.MenuSideNav))
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Empty(t, cfgRepo.created)
}

func TestUpdateConfigRejectsMissingRequiredNode(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	items := menu.SeedItems(consts.MenuSideNav)
	var withoutSettings []*model.MenuNode
	for _, n := range items {
		if n.Id != "settings" {
			withoutSettings = append(withoutSettings, n)
		}
	}

	_, err := svc.UpdateConfig(context.Background(), consts.MenuSideNav, "admin", withoutSettings)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestUpdateConfigSyncsCatalogAndRegistry(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	intRepo := newMockIntegrationRepo()
	reg := bootedRegistry(t)
	bus := event.NewEventBus()

	var structureEvents []event.Event
	bus.RegisterHandler(consts.EventMenuStructureChange, event.EventHandlerFunc(func(e event.Event) {
		structureEvents = append(structureEvents, e)
	}))

	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, intRepo, identity, reg, bus)

	items := menu.SeedItems(consts.MenuSideNav)
	items = append(items, &model.MenuNode{
		Id: "wiki", Kind: model.MenuKindExternal, Enabled: true, Order: 50,
		External: &model.ExternalPayload{Url: "https://wiki.example.com", OpenInNewTab: true},
	})

	cfg, err := svc.UpdateConfig(context.Background(), consts.MenuSideNav, "admin", items)
	require.NoError(t, err)
	assert.NotNil(t, findNode(cfg.Items, "wiki"))

	// 非 system 节点进入目录，slug == 节点 id
	row, ok := intRepo.bySlug["wiki"]
	require.True(t, ok)
	assert.Equal(t, model.IntegrationTypeExternalLink, row.Type)
	assert.Equal(t, consts.MenuSideNav, row.MenuId)

	// 管理端写入的节点自动成为 custom 注册条目
	entry, ok := reg.Get("wiki")
	require.True(t, ok)
	assert.Equal(t, registry.EntryKindCustom, entry.Kind)

	require.Len(t, structureEvents, 1)
}

func TestUpdateConfigEmbeddedConfigHasLaunchMode(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	intRepo := newMockIntegrationRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Owner},
	}}
	svc := newMenuService(cfgRepo, intRepo, identity, reg, event.NewEventBus())

	items := menu.SeedItems(consts.MenuSideNav)
	items = append(items, &model.MenuNode{
		Id: "billing-app", Kind: model.MenuKindEmbedded, Enabled: true, Order: 60,
		Embedded: &model.EmbeddedPayload{EntryUrl: "https://apps.example.com/billing/entry.js"},
	})

	_, err := svc.UpdateConfig(context.Background(), consts.MenuSideNav, "admin", items)
	require.NoError(t, err)

	row, ok := intRepo.bySlug["billing-app"]
	require.True(t, ok)
	var config map[string]any
	require.NoError(t, json.Unmarshal(row.Config, &config))
	assert.Equal(t, "remote_url", config["launchMode"])
	assert.Equal(t, "https://apps.example.com/billing/entry.js", config["entryUrl"])
}

func TestUpdateConfigOverwritesPersistedTree(t *testing.T) {
	cfgRepo := newMockMenuConfigRepo()
	reg := bootedRegistry(t)
	identity := &mockIdentityResolver{uc: &model.UserContext{
		UserId: "admin", Roles: []string{model.Admin},
	}}
	svc := newMenuService(cfgRepo, newMockIntegrationRepo(), identity, reg, event.NewEventBus())

	first := menu.SeedItems(consts.MenuSideNav)
	_, err := svc.UpdateConfig(context.Background(), consts.MenuSideNav, "admin", first)
	require.NoError(t, err)

	second := menu.SeedItems(consts.MenuSideNav)
	second = append(second, &model.MenuNode{
		Id: "status", Kind: model.MenuKindExternal, Enabled: true, Order: 70,
		External: &model.ExternalPayload{Url: "https://status.example.com"},
	})
	_, err = svc.UpdateConfig(context.Background(), consts.MenuSideNav, "admin", second)
	require.NoError(t, err)

	cfg, err := svc.GetConfig(context.Background(), consts.MenuSideNav, menu.LocaleEn)
	require.NoError(t, err)
	assert.NotNil(t, findNode(cfg.Items, "status"))
}
