package wearables

import (
	"fmt"

	"github.com/goliatone/go-wearables/adapters/gocommand"
	wearablescommand "github.com/goliatone/go-wearables/command"
	"github.com/goliatone/go-wearables/core"
	wearablesquery "github.com/goliatone/go-wearables/query"
)

type CommandQueryService interface {
	wearablescommand.ToggleService
	wearablescommand.ActivationService
	wearablesquery.IntegrationReader
	wearablesquery.SyncTypeReader
}

type Commands struct {
	ToggleIntegration    *wearablescommand.ToggleIntegrationCommand
	ToggleBackgroundSync *wearablescommand.ToggleBackgroundSyncCommand
	ActivateEngine       *wearablescommand.ActivateEngineCommand
}

type Queries struct {
	ListIntegrations      *wearablesquery.ListIntegrationsQuery
	SanitizedIntegrations *wearablesquery.SanitizedIntegrationsQuery
	SyncTypeAssignments   *wearablesquery.SyncTypeAssignmentsQuery
	SyncTypeOptions       *wearablesquery.SyncTypeOptionsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	integrationReader wearablesquery.IntegrationReader
}

// WithIntegrationReader serves the list queries from reader instead of the
// service, e.g. a cached store in front of the host.
func WithIntegrationReader(reader wearablesquery.IntegrationReader) FacadeOption {
	return func(options *facadeOptions) {
		options.integrationReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("wearables: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.integrationReader
	if reader == nil {
		reader = service
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		ToggleIntegration:    wearablescommand.NewToggleIntegrationCommand(service),
		ToggleBackgroundSync: wearablescommand.NewToggleBackgroundSyncCommand(service),
		ActivateEngine:       wearablescommand.NewActivateEngineCommand(service),
	}
	facade.queries = Queries{
		ListIntegrations:      wearablesquery.NewListIntegrationsQuery(reader),
		SanitizedIntegrations: wearablesquery.NewSanitizedIntegrationsQuery(reader),
		SyncTypeAssignments:   wearablesquery.NewSyncTypeAssignmentsQuery(service),
		SyncTypeOptions:       wearablesquery.NewSyncTypeOptionsQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// Bind subscribes every command and query on bus. Call bus.Initialize
// afterwards so registered resolvers see them.
func (f *Facade) Bind(bus *gocommand.Bus) error {
	if f == nil {
		return fmt.Errorf("wearables: facade is nil")
	}
	if bus == nil {
		return fmt.Errorf("wearables: command bus is required")
	}
	binders := []func() error{
		func() error { return gocommand.BindCommand[wearablescommand.ToggleIntegrationMessage](bus, f.commands.ToggleIntegration) },
		func() error { return gocommand.BindCommand[wearablescommand.ToggleBackgroundSyncMessage](bus, f.commands.ToggleBackgroundSync) },
		func() error { return gocommand.BindCommand[wearablescommand.ActivateEngineMessage](bus, f.commands.ActivateEngine) },
		func() error { return gocommand.BindQuery[wearablesquery.ListIntegrationsMessage, []core.WearableIntegration](bus, f.queries.ListIntegrations) },
		func() error { return gocommand.BindQuery[wearablesquery.SanitizeIntegrationsMessage, []core.WearableIntegration](bus, f.queries.SanitizedIntegrations) },
		func() error { return gocommand.BindQuery[wearablesquery.SyncTypeAssignmentsMessage, core.SyncTypeSettings](bus, f.queries.SyncTypeAssignments) },
		func() error { return gocommand.BindQuery[wearablesquery.SyncTypeOptionsMessage, core.SyncTypeOptions](bus, f.queries.SyncTypeOptions) },
	}
	for _, bind := range binders {
		if err := bind(); err != nil {
			return err
		}
	}
	return nil
}
