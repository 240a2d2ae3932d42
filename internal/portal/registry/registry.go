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

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-arcade/portal/internal/portal/model"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/go-arcade/portal/pkg/safe"
)

// State 注册表生命周期状态
type State int32

const (
	StateUnbooted State = iota // 尚未开始注册
	StateBooting               // 系统条目注册中
	StateReady                 // 注册完成，可以派生菜单树
)

// EntryKind 注册条目来源
type EntryKind string

const (
	EntryKindSystem EntryKind = "system" // 启动时注册的系统条目
	EntryKindCustom EntryKind = "custom" // 管理端写入时自动注册的条目
)

// rootBucket 父级桶的根哨兵 key
const rootBucket = ""

// Entry 包装一个菜单节点的注册条目。
// ParentId 只存在于注册表中，不写入被包装的节点；
// ParentId 解析失败时条目降级为根节点，而不是报错。
type Entry struct {
	Id       string
	Name     string
	Kind     EntryKind
	Enabled  bool
	Order    int
	ParentId string
	Node     *model.MenuNode

	// Init 可选的异步初始化钩子，失败只记录日志，不阻塞后续注册
	Init func(ctx context.Context) error
}

// Registry 进程内菜单插件注册表。
// 由启动序列持有，所有修改都经过内部互斥锁串行化。
type Registry struct {
	mu      sync.RWMutex
	state   State
	entries map[string]*Entry
	buckets map[string][]string // parentId → 子条目 id 列表，根为 rootBucket
}

func NewRegistry() *Registry {
	return &Registry{
		state:   StateUnbooted,
		entries: make(map[string]*Entry),
		buckets: make(map[string][]string),
	}
}

// StartBoot 进入 Booting 状态
func (r *Registry) StartBoot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateUnbooted {
		r.state = StateBooting
	}
}

// FinishBoot 进入 Ready 状态
func (r *Registry) FinishBoot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateReady
}

// State 返回当前生命周期状态
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Ready reports whether boot has finished.
func (r *Registry) Ready() bool {
	return r.State() == StateReady
}

// Register 注册一个条目。
// 重复 id 返回 Conflict；parentId 在已知条目间成环返回 Invalid。
func (r *Registry) Register(entry *Entry) error {
	if entry == nil || entry.Id == "" {
		return fmt.Errorf("%w: registry entry id is empty", model.ErrInvalid)
	}
	if entry.Node == nil {
		return fmt.Errorf("%w: registry entry %s has no node", model.ErrInvalid, entry.Id)
	}

	r.mu.Lock()
	if _, exists := r.entries[entry.Id]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: registry entry %s already registered", model.ErrConflict, entry.Id)
	}
	if err := r.checkCycleLocked(entry); err != nil {
		r.mu.Unlock()
		return err
	}

	r.entries[entry.Id] = entry
	bucket := entry.ParentId
	if bucket == entry.Id {
		bucket = rootBucket
	}
	r.buckets[bucket] = append(r.buckets[bucket], entry.Id)
	initHook := entry.Init
	r.mu.Unlock()

	if initHook != nil {
		id := entry.Id
		safe.Go(func() {
			if err := initHook(context.Background()); err != nil {
				log.Warnw("registry entry init hook failed",
					"entryId", id,
					"error", err,
				)
			}
		})
	}

	return nil
}

// checkCycleLocked 沿已知条目的父链行走；闭合任何环的最后一条边
// 一定由某次 Register 引入，所以只需检查新条目即可。
func (r *Registry) checkCycleLocked(entry *Entry) error {
	seen := map[string]bool{entry.Id: true}
	cur := entry.ParentId
	for cur != "" {
		if seen[cur] {
			return fmt.Errorf("%w: registry entry %s introduces a parent cycle", model.ErrInvalid, entry.Id)
		}
		seen[cur] = true
		parent, ok := r.entries[cur]
		if !ok {
			// 前向引用，父条目可能稍后注册
			return nil
		}
		cur = parent.ParentId
	}
	return nil
}

// SetEnabled 切换条目的启用状态并镜像到被包装的节点，不级联到后代
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: registry entry %s", model.ErrNotFound, id)
	}
	entry.Enabled = enabled
	entry.Node.Enabled = enabled
	return nil
}

// Get 返回条目（只读用途）
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// DerivedTree 从注册条目重建菜单树。
// Ready 之前返回空树，这是合法结果而非错误。
// 未解析的 parentId 使节点落在根层；被保留的根节点会携带
// 其全部后代（包括 enabled=false 的，留给管理端重新启用），
// 面向最终用户的可见性过滤发生在 visibility 层。
func (r *Registry) DerivedTree() []*model.MenuNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateReady {
		return []*model.MenuNode{}
	}

	// 1. 收集全部条目（含禁用），按 order 排序
	all := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Order < all[j].Order
	})

	// 2. 物化节点，初始全部放在根层
	materialized := make(map[string]*model.MenuNode, len(all))
	roots := make([]*model.MenuNode, 0, len(all))
	for _, e := range all {
		node := e.Node.Clone()
		node.Enabled = e.Enabled
		node.Order = e.Order
		node.Children = nil
		materialized[e.Id] = node
		roots = append(roots, node)
	}

	// 3. 将可解析 parentId 的节点挂到父节点下（物化表按 id 查找，
	//    与注册顺序无关，因此前向引用也能成立）
	attached := make(map[string]bool)
	for _, e := range all {
		if e.ParentId == "" || e.ParentId == e.Id {
			continue
		}
		parent, ok := materialized[e.ParentId]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, materialized[e.Id])
		attached[e.Id] = true
	}

	// 4. 根层只保留启用条目对应的节点；被保留节点的后代全部保留
	kept := make([]*model.MenuNode, 0, len(roots))
	for _, e := range all {
		if attached[e.Id] {
			continue
		}
		if !e.Enabled {
			continue
		}
		kept = append(kept, materialized[e.Id])
	}

	// 5. 递归排序
	sortNodes(kept)

	return kept
}

func sortNodes(nodes []*model.MenuNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// UpdateFromNode 用菜单节点回填条目的 enabled/order/载荷。
// 条目不存在时自动注册为 custom 条目（管理端写入的节点成为一等注册成员）。
// parentId 的变更不在这里同步。
func (r *Registry) UpdateFromNode(node *model.MenuNode) error {
	if node == nil || node.Id == "" {
		return fmt.Errorf("%w: node id is empty", model.ErrInvalid)
	}
	if err := node.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	entry, ok := r.entries[node.Id]
	if !ok {
		r.mu.Unlock()
		return r.Register(&Entry{
			Id:      node.Id,
			Name:    node.Label,
			Kind:    EntryKindCustom,
			Enabled: node.Enabled,
			Order:   node.Order,
			Node:    node.Clone(),
		})
	}

	defer r.mu.Unlock()
	if entry.Node.Kind != node.Kind {
		// kind 不可变，变更应建模为删除后重建
		return fmt.Errorf("%w: node %s: kind change %s -> %s", model.ErrInvalid, node.Id, entry.Node.Kind, node.Kind)
	}
	entry.Enabled = node.Enabled
	entry.Order = node.Order
	entry.Node.Enabled = node.Enabled
	entry.Node.Order = node.Order
	entry.Node.RequiredRoles = append([]string(nil), node.RequiredRoles...)
	entry.Node.RequiredPermissions = append([]string(nil), node.RequiredPermissions...)
	if node.Conditions != nil {
		c := *node.Conditions
		entry.Node.Conditions = &c
	}
	switch node.Kind {
	case model.MenuKindSystem:
		s := *node.System
		entry.Node.System = &s
	case model.MenuKindExternal:
		e := *node.External
		entry.Node.External = &e
	case model.MenuKindIframe:
		f := *node.Iframe
		entry.Node.Iframe = &f
	case model.MenuKindEmbedded:
		e := *node.Embedded
		entry.Node.Embedded = &e
	}
	return nil
}

// Len 返回已注册条目数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
