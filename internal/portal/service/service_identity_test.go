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
	"errors"
	"testing"

	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildsSnapshot(t *testing.T) {
	rbac := &mockRbacRepo{
		roles:       []string{model.Admin, model.Member},
		permissions: []string{"menu:write", "project:read"},
		inOrg:       true,
	}
	svc := NewIdentityService(rbac, nil)

	uc, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uc.UserId)
	assert.True(t, uc.HasRole(model.Admin))
	assert.True(t, uc.HasPermission("menu:write"))
	assert.True(t, uc.InOrganization)
	assert.False(t, uc.InTeam)
}

func TestResolveEmptyUserId(t *testing.T) {
	svc := NewIdentityService(&mockRbacRepo{}, nil)

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestResolvePropagatesStoreError(t *testing.T) {
	rbac := &mockRbacRepo{err: errors.New("connection refused")}
	svc := NewIdentityService(rbac, nil)

	_, err := svc.Resolve(context.Background(), "u1")
	assert.Error(t, err)
}
