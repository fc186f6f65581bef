package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string
	Legacy  bool
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the wearablesctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wearablesctl",
		Short: "Inspect wearable integration lists",
		Long: `Run the wearables engine over an integration list file.

Lists are YAML or JSON, either a bare array of integrations or a document
with an "integrations" key.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "engine config file (yaml|toml)")
	cmd.PersistentFlags().BoolVar(&opts.Legacy, "legacy-sort", false, "sort by attention before name")

	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewAssignmentsCommand(opts))
	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewNamesCommand(opts))

	return cmd
}
