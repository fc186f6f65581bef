package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type integrationRecord struct {
	bun.BaseModel `bun:"table:wearable_integrations,alias:wi"`

	ID                 string         `bun:"id,pk"`
	ProviderID         string         `bun:"provider_id,notnull,unique"`
	ProviderType       string         `bun:"provider_type,notnull"`
	DisplayName        string         `bun:"display_name,notnull"`
	Enabled            bool           `bun:"enabled,notnull"`
	Status             string         `bun:"status,notnull"`
	SupportedSyncTypes []string       `bun:"supported_sync_types,type:jsonb,notnull"`
	SyncTypes          []string       `bun:"sync_types,type:jsonb,notnull"`
	Meta               map[string]any `bun:"meta,type:jsonb,notnull"`
	AuthorizationURL   string         `bun:"authorization_url,notnull"`
	CreatedAt          time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
