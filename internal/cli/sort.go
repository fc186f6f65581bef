package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-wearables/core"
	"github.com/spf13/cobra"
)

func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <integrations-file>",
		Short: "Sanitize and sort an integration list",
		Long: `Run the sanitize pipeline and the attention sort over a list.

With --legacy-sort, providers needing attention come first, then enabled
ones, then by display name. Otherwise the list is ordered by name,
ignoring case.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(rootOpts, args[0], cmd)
		},
	}
}

func runSort(opts *RootOptions, path string, cmd *cobra.Command) error {
	engine, list, formatter, err := loadForCommand(opts, cmd, path)
	if err != nil {
		return err
	}
	legacy := engine.Config().LegacySort
	formatter.VerboseLog("sorting with legacy=%t", legacy)

	sorted, err := engine.SanitizeEHRs(cmd.Context(), list, legacy)
	if err != nil {
		_ = formatter.Error(ErrCodeEngine, err)
		return WrapExitError(ExitFailure, "sanitize integrations", err)
	}
	return formatter.Success(sorted, func(w io.Writer) error {
		return writeIntegrationTable(w, sorted)
	})
}

func writeIntegrationTable(w io.Writer, list []core.WearableIntegration) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tNAME\tENABLED\tSTATUS\tATTENTION")
	for _, item := range list {
		status := string(item.Status)
		if status == "" {
			status = "-"
		}
		attention := ""
		if item.NeedsAttention() {
			attention = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", item.ProviderID, item.DisplayName, item.Enabled, status, attention)
	}
	return tw.Flush()
}
