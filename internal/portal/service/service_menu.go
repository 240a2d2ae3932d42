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
	"github.com/go-arcade/portal/internal/portal/menu"
	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/internal/portal/registry"
	"github.com/go-arcade/portal/pkg/cache"
	"github.com/go-arcade/portal/pkg/event"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/redis/go-redis/v9"
)

// menuTreeCacheTTL 组合后菜单树的缓存时长。
// key 中带结构版本号，结构变更通过版本号自增立即失效，TTL 只兜底。
const menuTreeCacheTTL = 5 * time.Minute

// MenuService 菜单组合服务：配置 + 注册表 + 身份过滤 + 语言装饰。
type MenuService struct {
	store    *MenuConfigStore
	catalog  *CatalogSyncService
	identity IIdentityResolver
	registry *registry.Registry
	redis    cache.ICache
	eventBus *event.EventBus
}

func NewMenuService(
	store *MenuConfigStore,
	catalog *CatalogSyncService,
	identity IIdentityResolver,
	reg *registry.Registry,
	redis cache.ICache,
	eventBus *event.EventBus,
) *MenuService {
	return &MenuService{
		store:    store,
		catalog:  catalog,
		identity: identity,
		registry: reg,
		redis:    redis,
		eventBus: eventBus,
	}
}

// GetForUser 组合面向最终用户的菜单树。
// 任何一层（身份、存储、缓存）失败都降级而不是报错：
// 身份解析失败时按匿名身份过滤，配置读取失败时使用内置默认树。
func (s *MenuService) GetForUser(ctx context.Context, menuId, userId, locale string) ([]*model.MenuNode, error) {
	uc, err := s.identity.Resolve(ctx, userId)
	if err != nil {
		log.Errorw("identity resolution failed, composing with anonymous identity",
			"userId", userId,
			"error", err,
		)
		uc = &model.UserContext{UserId: userId}
	}

	cacheKey := s.treeCacheKey(ctx, menuId, userId, locale)
	if cached, ok := s.cachedTree(ctx, cacheKey); ok {
		return cached, nil
	}

	var items []*model.MenuNode
	cfg, err := s.store.Load(menuId, true)
	if err != nil {
		// 用户读路径永不报错：降级为种子树，未知菜单即空树
		log.Errorw("menu config load failed, composing from defaults", "menuId", menuId, "error", err)
		items = menu.SeedItems(menuId)
	} else {
		items = cfg.Items
	}

	s.publishRender(consts.EventMenuBeforeRender, menuId, userId, items)

	visible := menu.ApplyVisibility(items, uc)
	decorated := menu.Decorate(visible, locale)

	s.publishRender(consts.EventMenuAfterRender, menuId, userId, decorated)

	s.cacheTree(ctx, cacheKey, decorated)
	return decorated, nil
}

// GetConfig 管理端读取完整配置（含禁用节点与停用行，不做可见性过滤）。
// 行存在但树为空且注册表已 Ready 时，用派生树做一次性播种并持久化；
// 首次读取会把配置里的非 system 节点回注注册表，使其成为一等注册成员。
func (s *MenuService) GetConfig(ctx context.Context, menuId, locale string) (*model.MenuConfig, error) {
	cfg, err := s.store.Load(menuId, false)
	if err != nil {
		return nil, err
	}

	if len(cfg.Items) == 0 && s.registry != nil && s.registry.Ready() {
		if derived := s.registry.DerivedTree(); len(derived) > 0 {
			if persisted, perr := s.store.Persist(menuId, derived); perr != nil {
				log.Errorw("seed empty menu config failed", "menuId", menuId, "error", perr)
			} else {
				cfg.Items = persisted
			}
		}
	}

	s.reconcileRegistry(cfg.Items)

	s.publishRender(consts.EventMenuBeforeRender, menuId, "", cfg.Items)
	out := *cfg
	out.Items = menu.Decorate(cfg.Items, locale)
	s.publishRender(consts.EventMenuAfterRender, menuId, "", out.Items)
	return &out, nil
}

// SetConfigActive 管理端启停菜单配置。停用后用户读路径回到默认树。
func (s *MenuService) SetConfigActive(ctx context.Context, menuId, userId string, active bool) error {
	uc, err := s.identity.Resolve(ctx, userId)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}
	if !uc.HasRole(model.Admin) && !uc.HasRole(model.Owner) {
		return fmt.Errorf("%w: user %s cannot update menu %s", model.ErrForbidden, userId, menuId)
	}

	if err := s.store.SetActive(menuId, active); err != nil {
		return err
	}
	s.bumpVersion(ctx, menuId)
	return nil
}

// UpdateConfig 管理端整体覆盖菜单树。
// 仅 admin/owner 可写；保存成功后同步集成目录、回注注册表、
// 广播结构变更并递增结构版本号使全部用户缓存失效。
func (s *MenuService) UpdateConfig(ctx context.Context, menuId, userId string, items []*model.MenuNode) (*model.MenuConfig, error) {
	uc, err := s.identity.Resolve(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !uc.HasRole(model.Admin) && !uc.HasRole(model.Owner) {
		return nil, fmt.Errorf("%w: user %s cannot update menu %s", model.ErrForbidden, userId, menuId)
	}

	sanitized, err := s.store.Persist(menuId, items)
	if err != nil {
		return nil, err
	}

	s.catalog.SyncFromTree(menuId, sanitized)
	s.reconcileRegistry(sanitized)

	s.eventBus.Publish(&MenuStructureEvent{
		MenuId:    menuId,
		ChangedBy: userId,
	})
	s.bumpVersion(ctx, menuId)

	return &model.MenuConfig{
		MenuId:   menuId,
		Name:     menuId,
		Items:    sanitized,
		IsActive: true,
	}, nil
}

// reconcileRegistry 把配置树回注注册表，失败的节点只记录日志
func (s *MenuService) reconcileRegistry(items []*model.MenuNode) {
	if s.registry == nil {
		return
	}
	model.WalkNodes(items, func(n *model.MenuNode) bool {
		if err := s.registry.UpdateFromNode(n); err != nil {
			log.Warnw("registry reconcile failed for node", "nodeId", n.Id, "error", err)
		}
		return true
	})
}

func (s *MenuService) publishRender(name, menuId, userId string, items []*model.MenuNode) {
	if s.eventBus == nil {
		return
	}
	count := 0
	model.WalkNodes(items, func(*model.MenuNode) bool {
		count++
		return true
	})
	s.eventBus.Publish(&MenuRenderEvent{
		Name:      name,
		MenuId:    menuId,
		UserId:    userId,
		Items:     items,
		NodeCount: count,
	})
}

// treeCacheKey 组合缓存 key，内嵌结构版本号
func (s *MenuService) treeCacheKey(ctx context.Context, menuId, userId, locale string) string {
	version := "0"
	if s.redis != nil {
		if v, err := s.redis.Get(ctx, consts.MenuVersionKey+menuId).Result(); err == nil {
			version = v
		} else if err != redis.Nil {
			log.Warnw("menu version read failed", "menuId", menuId, "error", err)
		}
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", consts.MenuTreeCacheKey, menuId, userId, locale, version)
}

func (s *MenuService) cachedTree(ctx context.Context, key string) ([]*model.MenuNode, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warnw("menu tree cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var items []*model.MenuNode
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Warnw("menu tree cache entry is not valid json", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (s *MenuService) cacheTree(ctx context.Context, key string, items []*model.MenuNode) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, menuTreeCacheTTL).Err(); err != nil {
		log.Warnw("menu tree cache write failed", "key", key, "error", err)
	}
}

// bumpVersion 递增结构版本号，旧版本的缓存条目随 TTL 自然淘汰
func (s *MenuService) bumpVersion(ctx context.Context, menuId string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Incr(ctx, consts.MenuVersionKey+menuId).Err(); err != nil {
		log.Warnw("menu version bump failed", "menuId", menuId, "error", err)
	}
}
