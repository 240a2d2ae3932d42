package consts

/**
 * @author: gagral.x@gmail.com
 * @file: const_menu.go
 * @description: 菜单相关常量
 */

const (
	// MenuSideNav 侧边导航菜单的 menuId
	MenuSideNav = "side-nav"

	// MenuTreeCacheKey 组合后菜单树的缓存 key 前缀: portal:menu:{menuId}:{userId}:{version}
	MenuTreeCacheKey = "portal:menu:"

	// MenuVersionKey 菜单结构版本号 key 前缀: portal:menu:version:{menuId}
	MenuVersionKey = "portal:menu:version:"

	// IdentityCacheKey 用户身份快照缓存 key 前缀
	IdentityCacheKey = "portal:identity:"
)

// 菜单渲染/变更事件名
const (
	EventMenuBeforeRender    = "menu.before_render"
	EventMenuAfterRender     = "menu.after_render"
	EventMenuStructureChange = "menu.structure_changed"
)
