package repo

import (
	"github.com/google/wire"
)

// ProviderSet 提供仓储层相关的依赖
var ProviderSet = wire.NewSet(
	NewMenuConfigRepo,
	NewIntegrationRepo,
	NewRbacRepo,
)
