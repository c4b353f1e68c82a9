package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spboyer/ipsbench/internal/hold"
	"github.com/spboyer/ipsbench/internal/projectconfig"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newHoldCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Inspect or reset a hold file",
		Long: `Inspect or reset the hold file used by run --hold.

The hold file stores one measured entry per line so a long suite can be
measured across several invocations. The path defaults to hold.path from
.ipsbench.yaml.`,
	}

	cmd.PersistentFlags().StringVar(&path, "hold", "", "Hold file (default: hold.path from .ipsbench.yaml)")

	cmd.AddCommand(newHoldListCommand(&path))
	cmd.AddCommand(newHoldClearCommand(&path))

	return cmd
}

func newHoldListCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List held results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHold(*path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if store.Len() == 0 {
				_, err := fmt.Fprintf(out, "No held results in %s\n", store.Path())
				return err
			}

			p := message.NewPrinter(language.English)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tPASS\tI/S\tITERATIONS\tSKEWED") //nolint:errcheck
			for _, e := range store.Entries() {
				p.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%t\n", e.Label, e.Pass, e.IPS(), e.TotalIterations, e.TimingSkewed) //nolint:errcheck
			}
			return tw.Flush()
		},
	}
}

func newHoldClearCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the hold file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHold(*path)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing hold file: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Hold file cleared: %s\n", store.Path())
			return err
		},
	}
}

// openHold opens path, falling back to the project configuration's hold
// path when none is given.
func openHold(path string) (*hold.Store, error) {
	if path == "" {
		project, err := loadProject()
		if err != nil {
			return nil, err
		}
		path = project.Resolve(project.Hold.Path)
	}
	if path == "" {
		return nil, fmt.Errorf("no hold file: pass --hold or set hold.path in %s", projectconfig.FileName)
	}
	return hold.Open(path)
}
