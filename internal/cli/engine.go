package cli

import (
	"strings"

	"github.com/goliatone/go-wearables/core"
	"github.com/spf13/cobra"
)

const (
	ErrCodeInput  = "E001"
	ErrCodeEngine = "E002"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newEngine builds an engine without a host API. The CLI only runs the pure
// parts of the engine: sanitize, sort, and sync-type resolution.
func newEngine(opts *RootOptions) (*core.Engine, error) {
	engineOpts := []core.Option{}
	if path := strings.TrimSpace(opts.Config); path != "" {
		engineOpts = append(engineOpts, core.WithConfigProvider(
			core.NewCfgxConfigProvider(core.FileConfigLoader{Path: path, Required: true}),
		))
	}
	return core.NewEngine(core.Config{LegacySort: opts.Legacy}, engineOpts...)
}

// loadForCommand wires the shared steps of every list command: build the
// engine, read the list, and report failures through the formatter.
func loadForCommand(opts *RootOptions, cmd *cobra.Command, path string) (*core.Engine, []core.WearableIntegration, *OutputFormatter, error) {
	formatter := newFormatter(opts, cmd)

	engine, err := newEngine(opts)
	if err != nil {
		_ = formatter.Error(ErrCodeEngine, err)
		return nil, nil, formatter, WrapExitError(ExitCommandError, "build engine", err)
	}
	list, err := LoadIntegrationsFile(path, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err)
		return nil, nil, formatter, WrapExitError(ExitCommandError, "load integrations", err)
	}
	formatter.VerboseLog("loaded %d integration(s) from %s", len(list), path)
	return engine, list, formatter, nil
}
