package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spboyer/ipsbench/internal/compare"
	"github.com/spboyer/ipsbench/internal/models"
	"github.com/spboyer/ipsbench/internal/statistics"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "compare [results.json ...]",
		Short: "Compare previously exported results",
		Long: `Compare entries from one or more JSON exports written by run --json.

Each record is summarized by its ips and stddev, so the comparison uses the
standard deviation model regardless of how the results were measured. When
several files contain the same label, the later file wins.

Without arguments, every export in the project's results directory
(paths.results in .ipsbench.yaml) is compared, in name order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "table" && outputFormat != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", outputFormat)
			}
			if len(args) == 0 {
				project, err := loadProject()
				if err != nil {
					return err
				}
				if args, err = projectFiles(project, project.Paths.Results, ".json", ".json.gz"); err != nil {
					return err
				}
			}
			records, err := loadRecordFiles(args)
			if err != nil {
				return err
			}
			if len(records) < 2 {
				return fmt.Errorf("need at least two results to compare, got %d", len(records))
			}

			outcome := compare.Compare(recordResults(records))
			if outputFormat == "json" {
				return printOutcomeJSON(cmd.OutOrStdout(), outcome)
			}
			return outcome.Format(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table or json")

	return cmd
}

// loadRecordFiles reads every export in order. A label seen again replaces
// the earlier record in place.
func loadRecordFiles(paths []string) ([]models.Record, error) {
	var out []models.Record
	index := make(map[string]int)
	for _, path := range paths {
		records, err := models.ReadRecordsFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		for _, r := range records {
			if i, ok := index[r.Name]; ok {
				out[i] = r
				continue
			}
			index[r.Name] = len(out)
			out = append(out, r)
		}
	}
	return out, nil
}

func recordResults(records []models.Record) []compare.Result {
	results := make([]compare.Result, 0, len(records))
	for _, r := range records {
		results = append(results, compare.Result{
			Label: r.Name,
			Model: statistics.NewSDSummary(r.IPS, r.Stddev),
		})
	}
	return results
}

type rankedJSON struct {
	Label   string   `json:"label"`
	IPS     float64  `json:"ips"`
	Error   float64  `json:"error"`
	Verdict string   `json:"verdict"`
	Factor  float64  `json:"factor,omitempty"`
	FactorE *float64 `json:"factor_error,omitempty"`
}

func printOutcomeJSON(w io.Writer, o compare.Outcome) error {
	rows := make([]rankedJSON, 0, len(o.Ranked))
	for _, r := range o.Ranked {
		rows = append(rows, rankedJSON{
			Label:   r.Label,
			IPS:     r.Model.CentralTendency(),
			Error:   r.Model.Error(),
			Verdict: r.Verdict.Kind.String(),
			Factor:  r.Verdict.Factor,
			FactorE: r.Verdict.Error,
		})
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
