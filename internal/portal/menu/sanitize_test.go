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
	"errors"
	"testing"

	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDropsMismatchedPayloadAndDecoration(t *testing.T) {
	node := &model.MenuNode{
		Id:      " wiki ",
		Kind:    model.MenuKindExternal,
		Enabled: true,
		Label:   "Wiki",
		Icon:    "book",
		External: &model.ExternalPayload{
			Url: "https://wiki.example.com",
		},
		// 与 kind 不匹配的载荷应被清除
		Iframe:        &model.IframePayload{Url: "https://stale.example.com"},
		RequiredRoles: []string{"", model.Admin, " "},
		Children:      []*model.MenuNode{nil},
	}

	got := Sanitize([]*model.MenuNode{node, nil})
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "wiki", s.Id)
	assert.Empty(t, s.Label)
	assert.Empty(t, s.Icon)
	assert.Nil(t, s.Iframe)
	assert.NotNil(t, s.External)
	assert.Equal(t, []string{model.Admin}, s.RequiredRoles)
	assert.Nil(t, s.Children)

	// 原始输入不被修改
	assert.Equal(t, "Wiki", node.Label)
}

func TestValidateTreeDuplicateId(t *testing.T) {
	items := []*model.MenuNode{
		systemNode("dashboard", 1),
		systemNode("settings", 2, systemNode("dashboard", 1)),
	}
	err := ValidateTree(consts.MenuSideNav, items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalid))
}

func TestValidateTreeRequiredSystemNodes(t *testing.T) {
	// side-nav 缺少 settings，应被拒绝
	err := ValidateTree(consts.MenuSideNav, []*model.MenuNode{systemNode("dashboard", 1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalid))

	// 未知菜单不强制最小集
	err = ValidateTree("some-other-menu", []*model.MenuNode{systemNode("anything", 1)})
	assert.NoError(t, err)
}

func TestValidateTreeSeedPasses(t *testing.T) {
	assert.NoError(t, ValidateTree(consts.MenuSideNav, SeedItems(consts.MenuSideNav)))
}

func TestSeedItemsReturnsCopy(t *testing.T) {
	a := SeedItems(consts.MenuSideNav)
	require.NotEmpty(t, a)
	a[0].Id = "mutated"

	b := SeedItems(consts.MenuSideNav)
	assert.NotEqual(t, "mutated", b[0].Id)
}

func TestSeedRegistryEntriesFlattenHierarchy(t *testing.T) {
	entries := SeedRegistryEntries(consts.MenuSideNav)
	require.NotEmpty(t, entries)

	byId := make(map[string]string)
	for _, e := range entries {
		byId[e.Id] = e.ParentId
	}
	assert.Equal(t, "", byId["dashboard"])
	assert.Equal(t, "settings", byId["settings-members"])
}
