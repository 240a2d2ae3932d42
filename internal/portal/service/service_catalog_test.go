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
	"testing"

	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncFromTreeSkipsSystemNodes(t *testing.T) {
	intRepo := newMockIntegrationRepo()
	catalog := NewCatalogSyncService(intRepo)

	catalog.SyncFromTree(consts.MenuSideNav, []*model.MenuNode{
		{
			Id: "dashboard", Kind: model.MenuKindSystem, Enabled: true,
			System: &model.SystemPayload{SystemId: "dashboard", Path: "/dashboard"},
		},
		{
			Id: "wiki", Kind: model.MenuKindExternal, Enabled: true, Order: 40,
			External: &model.ExternalPayload{Url: "https://wiki.example.com"},
		},
	})

	assert.Len(t, intRepo.bySlug, 1)
	assert.Contains(t, intRepo.bySlug, "wiki")
}

func TestSyncFromTreeRecordsParent(t *testing.T) {
	intRepo := newMockIntegrationRepo()
	catalog := NewCatalogSyncService(intRepo)

	catalog.SyncFromTree(consts.MenuSideNav, []*model.MenuNode{
		{
			Id: "tools", Kind: model.MenuKindSystem, Enabled: true,
			System: &model.SystemPayload{SystemId: "tools", Path: "/tools"},
			Children: []*model.MenuNode{
				{
					Id: "grafana", Kind: model.MenuKindIframe, Enabled: true,
					Iframe: &model.IframePayload{Url: "https://grafana.example.com"},
				},
			},
		},
	})

	row, ok := intRepo.bySlug["grafana"]
	require.True(t, ok)
	assert.Equal(t, "tools", row.MenuParentItemId)
	assert.Equal(t, model.IntegrationTypeIframe, row.Type)
}

func TestSyncFromTreeUpsertKeepsIntegrationId(t *testing.T) {
	intRepo := newMockIntegrationRepo()
	catalog := NewCatalogSyncService(intRepo)

	node := &model.MenuNode{
		Id: "wiki", Kind: model.MenuKindExternal, Enabled: true,
		External: &model.ExternalPayload{Url: "https://wiki.example.com"},
	}
	catalog.SyncFromTree(consts.MenuSideNav, []*model.MenuNode{node})
	firstId := intRepo.bySlug["wiki"].IntegrationId

	node.External.Url = "https://wiki2.example.com"
	catalog.SyncFromTree(consts.MenuSideNav, []*model.MenuNode{node})

	require.Len(t, intRepo.bySlug, 1)
	assert.Equal(t, firstId, intRepo.bySlug["wiki"].IntegrationId)
}

func TestReverseMapRoundTrip(t *testing.T) {
	intRepo := newMockIntegrationRepo()
	catalog := NewCatalogSyncService(intRepo)

	original := &model.MenuNode{
		Id: "billing-app", Kind: model.MenuKindEmbedded, Enabled: true, Order: 60,
		RequiredRoles: []string{model.Admin},
		Embedded:      &model.EmbeddedPayload{EntryUrl: "https://apps.example.com/billing/entry.js", Path: "/billing"},
	}
	catalog.SyncFromTree(consts.MenuSideNav, []*model.MenuNode{original})

	row, ok := intRepo.bySlug["billing-app"]
	require.True(t, ok)

	node, err := catalog.ReverseMap(row)
	require.NoError(t, err)
	assert.Equal(t, original.Id, node.Id)
	assert.Equal(t, model.MenuKindEmbedded, node.Kind)
	assert.Equal(t, original.Order, node.Order)
	assert.Equal(t, original.RequiredRoles, node.RequiredRoles)
	require.NotNil(t, node.Embedded)
	assert.Equal(t, original.Embedded.EntryUrl, node.Embedded.EntryUrl)
	assert.Equal(t, original.Embedded.Path, node.Embedded.Path)
}

func TestReverseMapUnknownType(t *testing.T) {
	catalog := NewCatalogSyncService(newMockIntegrationRepo())

	_, err := catalog.ReverseMap(&model.Integration{
		Slug: "mystery", Type: "TELEPATHY",
	})
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestCatalogEntriesSkipsBrokenRows(t *testing.T) {
	intRepo := newMockIntegrationRepo()
	intRepo.bySlug["good"] = &model.Integration{
		Slug: "good", Type: model.IntegrationTypeExternalLink,
		IsEnabled: model.IntegrationEnabled, MenuId: consts.MenuSideNav,
		Config: []byte(`{"url":"https://good.example.com"}`),
	}
	intRepo.bySlug["broken"] = &model.Integration{
		Slug: "broken", Type: "TELEPATHY", MenuId: consts.MenuSideNav,
	}

	catalog := NewCatalogSyncService(intRepo)
	entries := catalog.CatalogEntries(consts.MenuSideNav)

	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Node.Id)
}
