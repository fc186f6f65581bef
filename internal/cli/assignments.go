package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-wearables/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

// AssignmentsResult is the JSON payload of the assignments command.
type AssignmentsResult struct {
	Assignments core.SyncTypeSettings      `json:"assignments"`
	Conflicts   map[core.SyncType][]string `json:"conflicts,omitempty"`
}

func NewAssignmentsCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "assignments <integrations-file>",
		Short: "Show which provider owns each sync type",
		Long: `Resolve the current provider for every sync type in the list.

Categories no visible provider claims resolve to "none". When several
providers claim the same category the last one in list order wins; those
categories are reported as conflicts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignments(rootOpts, args[0], lang, cmd)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language for sync type names")
	return cmd
}

func runAssignments(opts *RootOptions, path string, lang string, cmd *cobra.Command) error {
	engine, list, formatter, err := loadForCommand(opts, cmd, path)
	if err != nil {
		return err
	}
	tag, err := parseLanguage(lang)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err)
		return WrapExitError(ExitCommandError, "parse language", err)
	}

	result := AssignmentsResult{
		Assignments: engine.ResolveCurrentAssignments(list),
		Conflicts:   core.SyncTypeConflicts(list),
	}
	for _, syncType := range core.SortedSyncTypes(result.Conflicts) {
		formatter.VerboseLog("conflict on %s: %v", syncType, result.Conflicts[syncType])
	}

	return formatter.Success(result, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SYNC TYPE\tNAME\tPROVIDER\tCONFLICT")
		for _, syncType := range core.SortedSyncTypes(result.Assignments) {
			conflict := ""
			if claimants := result.Conflicts[syncType]; len(claimants) > 0 {
				conflict = fmt.Sprintf("%v", claimants)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				syncType,
				engine.SyncTypeDisplayName(tag, syncType),
				result.Assignments[syncType],
				conflict,
			)
		}
		return tw.Flush()
	})
}

func parseLanguage(lang string) (language.Tag, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return tag, nil
}
