package service

import (
	"github.com/google/wire"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	NewIdentityService,
	NewMenuConfigStore,
	NewCatalogSyncService,
	NewMenuService,
	NewIntegrationService,
)
