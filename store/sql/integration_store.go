package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-wearables/core"
	"github.com/uptrace/bun"
)

const TextCodeIntegrationNotFound = "WEARABLES_INTEGRATION_NOT_FOUND"

// IntegrationStore keeps provider state in the wearable_integrations table
// and serves it to the engine as both host API and lister.
type IntegrationStore struct {
	db   *bun.DB
	repo repository.Repository[*integrationRecord]
	now  func() time.Time
}

func NewIntegrationStore(db *bun.DB) (*IntegrationStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*integrationRecord](db, integrationHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid integration repository wiring: %w", err)
		}
	}
	return &IntegrationStore{
		db:   db,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func NewIntegrationStoreFromPersistence(client *persistence.Client) (*IntegrationStore, error) {
	if client == nil {
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	}
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewIntegrationStore(db)
}

func (s *IntegrationStore) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Upsert inserts the integration or overwrites the stored row with the same
// provider id.
func (s *IntegrationStore) Upsert(ctx context.Context, in core.WearableIntegration) (core.WearableIntegration, error) {
	if s == nil || s.repo == nil {
		return core.WearableIntegration{}, fmt.Errorf("sqlstore: integration store is not configured")
	}
	providerID := strings.TrimSpace(in.ProviderID)
	if providerID == "" {
		return core.WearableIntegration{}, fmt.Errorf("sqlstore: provider id is required")
	}
	if strings.TrimSpace(in.ProviderType) == "" {
		in.ProviderType = providerID
	}

	now := s.now()
	current, found, err := s.findByProviderID(ctx, providerID)
	if err != nil {
		return core.WearableIntegration{}, err
	}
	if !found {
		created, err := s.repo.Create(ctx, newIntegrationRecord(in, now))
		if err != nil {
			return core.WearableIntegration{}, err
		}
		return created.toDomain(), nil
	}

	current.apply(in, now)
	updated, err := s.repo.Update(ctx, current, repository.UpdateByID(current.ID))
	if err != nil {
		return core.WearableIntegration{}, err
	}
	return updated.toDomain(), nil
}

func (s *IntegrationStore) Get(ctx context.Context, providerID string) (core.WearableIntegration, error) {
	record, err := s.mustFind(ctx, providerID)
	if err != nil {
		return core.WearableIntegration{}, err
	}
	return record.toDomain(), nil
}

// ListIntegrations returns rows in insertion order. Display ordering is the
// engine's job.
func (s *IntegrationStore) ListIntegrations(ctx context.Context) ([]core.WearableIntegration, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: integration store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("created_at ASC"), repository.OrderBy("provider_id ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]core.WearableIntegration, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// ToggleIntegration flips the enabled flag. Enabling a provider with a
// configured authorization URL parks it in NeedsAuthorization and returns
// the URL for the UI to open.
func (s *IntegrationStore) ToggleIntegration(ctx context.Context, providerID string, enabled bool) (core.ToggleResult, error) {
	record, err := s.mustFind(ctx, providerID)
	if err != nil {
		return core.ToggleResult{}, err
	}

	result := core.ToggleResult{}
	record.Enabled = enabled
	switch {
	case !enabled:
		record.Status = string(core.IntegrationStatusUnknown)
	case strings.TrimSpace(record.AuthorizationURL) != "":
		record.Status = string(core.IntegrationStatusNeedsAuthorization)
		result.AuthorizationURL = strings.TrimSpace(record.AuthorizationURL)
	default:
		record.Status = string(core.IntegrationStatusSyncing)
	}
	record.UpdatedAt = s.now()

	if _, err := s.repo.Update(ctx, record, repository.UpdateByID(record.ID)); err != nil {
		return core.ToggleResult{}, err
	}
	return result, nil
}

func (s *IntegrationStore) ToggleBackgroundSync(
	ctx context.Context,
	integration core.WearableIntegration,
	enabled bool,
) (core.WearableIntegration, error) {
	record, err := s.mustFind(ctx, integration.ProviderID)
	if err != nil {
		return core.WearableIntegration{}, err
	}
	meta := copyAnyMap(record.Meta)
	meta[core.MetaBackgroundSync] = enabled
	record.Meta = meta
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	if err != nil {
		return core.WearableIntegration{}, err
	}
	return updated.toDomain(), nil
}

// SetAuthorizationURL marks a provider as requiring an authorization
// redirect when it is enabled. An empty url clears the requirement.
func (s *IntegrationStore) SetAuthorizationURL(ctx context.Context, providerID string, url string) error {
	record, err := s.mustFind(ctx, providerID)
	if err != nil {
		return err
	}
	record.AuthorizationURL = strings.TrimSpace(url)
	record.UpdatedAt = s.now()
	_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return err
}

// ApplySyncTypeSettings persists a category selection: every stored
// provider's sync types become exactly the categories assigned to it.
// Categories mapped to "none" are cleared from all providers.
func (s *IntegrationStore) ApplySyncTypeSettings(ctx context.Context, settings core.SyncTypeSettings) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: integration store is not configured")
	}
	owned := map[string][]string{}
	for _, syncType := range core.SortedSyncTypes(settings) {
		providerID := strings.TrimSpace(settings[syncType])
		if providerID == "" || providerID == core.SyncTypeNone {
			continue
		}
		owned[providerID] = append(owned[providerID], string(syncType))
	}

	now := s.now()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		records := []*integrationRecord{}
		if err := tx.NewSelect().Model(&records).Scan(ctx); err != nil {
			return err
		}
		for _, record := range records {
			next := owned[record.ProviderID]
			if next == nil {
				next = []string{}
			}
			record.SyncTypes = next
			record.UpdatedAt = now
			if _, err := tx.NewUpdate().
				Model(record).
				Column("sync_types", "updated_at").
				WherePK().
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *IntegrationStore) mustFind(ctx context.Context, providerID string) (*integrationRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: integration store is not configured")
	}
	trimmed := strings.TrimSpace(providerID)
	if trimmed == "" {
		return nil, fmt.Errorf("sqlstore: provider id is required")
	}
	record, found, err := s.findByProviderID(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerrors.New(
			fmt.Sprintf("sqlstore: integration %q not found", trimmed),
			goerrors.CategoryNotFound,
		).WithTextCode(TextCodeIntegrationNotFound)
	}
	return record, nil
}

func (s *IntegrationStore) findByProviderID(ctx context.Context, providerID string) (*integrationRecord, bool, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("provider_id", "=", providerID),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
