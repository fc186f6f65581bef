package cli

import (
	"fmt"
	"io"

	"github.com/goliatone/go-wearables/core"
	"github.com/spf13/cobra"
)

func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options <integrations-file>",
		Short: "List the selectable providers per sync type",
		Long: `List, for every sync type, the providers that can supply it followed
by the "none" option. The current owner is marked with "*".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(rootOpts, args[0], cmd)
		},
	}
}

func runOptions(opts *RootOptions, path string, cmd *cobra.Command) error {
	engine, list, formatter, err := loadForCommand(opts, cmd, path)
	if err != nil {
		return err
	}
	options := engine.ResolveOptions(list)
	current := engine.ResolveCurrentAssignments(list)

	return formatter.Success(options, func(w io.Writer) error {
		for _, syncType := range core.SortedSyncTypes(options) {
			if _, err := fmt.Fprintf(w, "%s:\n", syncType); err != nil {
				return err
			}
			for _, option := range options[syncType] {
				marker := " "
				if current[syncType] == option.ID {
					marker = "*"
				}
				if _, err := fmt.Fprintf(w, "  %s %s (%s)\n", marker, option.DisplayName, option.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
