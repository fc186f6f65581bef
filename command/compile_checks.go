package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[ToggleIntegrationMessage]    = (*ToggleIntegrationCommand)(nil)
	_ gocmd.Commander[ToggleBackgroundSyncMessage] = (*ToggleBackgroundSyncCommand)(nil)
	_ gocmd.Commander[ActivateEngineMessage]       = (*ActivateEngineCommand)(nil)
)
