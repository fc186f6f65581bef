package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-wearables/core"
	"github.com/spf13/cobra"
)

func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:           "names <integrations-file>",
		Short:         "Print display names for the sync types in a list",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNames(rootOpts, args[0], lang, cmd)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language for sync type names")
	return cmd
}

func runNames(opts *RootOptions, path string, lang string, cmd *cobra.Command) error {
	engine, list, formatter, err := loadForCommand(opts, cmd, path)
	if err != nil {
		return err
	}
	tag, err := parseLanguage(lang)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err)
		return WrapExitError(ExitCommandError, "parse language", err)
	}

	seen := map[core.SyncType]string{}
	for _, item := range list {
		for _, syncType := range item.SupportedSyncTypes {
			seen[syncType] = engine.SyncTypeDisplayName(tag, syncType)
		}
	}

	return formatter.Success(seen, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, syncType := range core.SortedSyncTypes(seen) {
			fmt.Fprintf(tw, "%s\t%s\n", syncType, seen[syncType])
		}
		return tw.Flush()
	})
}
