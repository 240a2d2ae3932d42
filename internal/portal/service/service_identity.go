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
	"fmt"
	"time"

	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/repo"
	"github.com/go-arcade/portal/pkg/cache"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/redis/go-redis/v9"
)

// identityCacheTTL 身份快照缓存时长，角色变更最多延迟这么久生效
const identityCacheTTL = 60 * time.Second

// IIdentityResolver 把用户ID解析为一次菜单组合所用的身份快照
type IIdentityResolver interface {
	Resolve(ctx context.Context, userId string) (*model.UserContext, error)
}

// IdentityService RBAC 表驱动的身份解析，带 redis 旁路缓存
type IdentityService struct {
	rbacRepo repo.IRbacRepository
	redis    cache.ICache
}

func NewIdentityService(rbacRepo repo.IRbacRepository, redis cache.ICache) IIdentityResolver {
	return &IdentityService{
		rbacRepo: rbacRepo,
		redis:    redis,
	}
}

// Resolve 解析用户身份快照
func (s *IdentityService) Resolve(ctx context.Context, userId string) (*model.UserContext, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is empty", model.ErrInvalid)
	}

	cacheKey := consts.IdentityCacheKey + userId
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var uc model.UserContext
			if err := json.Unmarshal([]byte(cached), &uc); err == nil {
				return &uc, nil
			}
		} else if err != redis.Nil {
			log.Warnw("identity cache read failed", "userId", userId, "error", err)
		}
	}

	roleIds, err := s.rbacRepo.GetUserRoleIds(userId)
	if err != nil {
		return nil, fmt.Errorf("query user roles: %w", err)
	}
	permissions, err := s.rbacRepo.GetPermissionsByRoleIds(roleIds)
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	inOrg, err := s.rbacRepo.IsOrganizationMember(userId)
	if err != nil {
		return nil, fmt.Errorf("query organization membership: %w", err)
	}
	inTeam, err := s.rbacRepo.IsTeamMember(userId)
	if err != nil {
		return nil, fmt.Errorf("query team membership: %w", err)
	}

	uc := &model.UserContext{
		UserId:         userId,
		Roles:          roleIds,
		Permissions:    permissions,
		InOrganization: inOrg,
		InTeam:         inTeam,
	}

	if s.redis != nil {
		if data, err := json.Marshal(uc); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, identityCacheTTL).Err(); err != nil {
				log.Warnw("identity cache write failed", "userId", userId, "error", err)
			}
		}
	}

	return uc, nil
}
