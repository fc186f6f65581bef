package sqlstore

import "github.com/goliatone/go-wearables/core"

var (
	_ core.HostAPI           = (*IntegrationStore)(nil)
	_ core.IntegrationLister = (*IntegrationStore)(nil)
	_ IntegrationSource      = (*CachedIntegrationLister)(nil)
)
