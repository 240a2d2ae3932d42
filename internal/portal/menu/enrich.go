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
	"github.com/go-arcade/portal/internal/portal/model"
)

// 支持的展示语言
const (
	LocaleEn = "en"
	LocaleRu = "ru"
)

// kind 对应的默认图标
var defaultIcons = map[model.MenuKind]string{
	model.MenuKindSystem:   "page",
	model.MenuKindExternal: "link",
	model.MenuKindIframe:   "window",
	model.MenuKindEmbedded: "app",
}

// Decorate 纯展示装饰：按 locale 填充 label，补默认 icon。
// 返回深拷贝，装饰结果永远不回写存储。
func Decorate(items []*model.MenuNode, locale string) []*model.MenuNode {
	out := model.CloneNodes(items)
	for _, n := range out {
		decorateNode(n, locale)
	}
	return out
}

func decorateNode(n *model.MenuNode, locale string) {
	if n.Label == "" {
		n.Label = nodeLabel(n, locale)
	}
	if n.Icon == "" {
		n.Icon = nodeIcon(n)
	}
	for _, c := range n.Children {
		decorateNode(c, locale)
	}
}

func nodeLabel(n *model.MenuNode, locale string) string {
	if n.Kind == model.MenuKindSystem && n.System != nil {
		switch locale {
		case LocaleRu:
			if n.System.LabelRu != "" {
				return n.System.LabelRu
			}
		default:
			if n.System.LabelEn != "" {
				return n.System.LabelEn
			}
		}
		if n.System.Label != "" {
			return n.System.Label
		}
	}
	return n.Id
}

func nodeIcon(n *model.MenuNode) string {
	if n.Kind == model.MenuKindSystem && n.System != nil && n.System.Icon != "" {
		return n.System.Icon
	}
	return defaultIcons[n.Kind]
}
