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
	"github.com/go-arcade/portal/internal/portal/consts"
	"github.com/go-arcade/portal/internal/portal/model"
)

// MenuRenderEvent 一次菜单组合的渲染前/后事件，携带当次的树快照
type MenuRenderEvent struct {
	Name      string            `json:"name"`
	MenuId    string            `json:"menuId"`
	UserId    string            `json:"userId,omitempty"`
	Items     []*model.MenuNode `json:"items"`
	NodeCount int               `json:"nodeCount"`
}

func (e *MenuRenderEvent) EventName() string {
	return e.Name
}

func (e *MenuRenderEvent) EventType() string {
	return "menu"
}

// MenuStructureEvent 菜单结构被管理端改写后的事件
type MenuStructureEvent struct {
	MenuId    string `json:"menuId"`
	ChangedBy string `json:"changedBy"`
}

func (e *MenuStructureEvent) EventName() string {
	return consts.EventMenuStructureChange
}

func (e *MenuStructureEvent) EventType() string {
	return "menu"
}
