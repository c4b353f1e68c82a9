package main

import (
	"fmt"

	"github.com/spboyer/ipsbench/internal/suite"
	"github.com/spboyer/ipsbench/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [suite.yaml ...]",
		Short: "Check suite files against the suite schema",
		Long: `Check suite files against the suite schema.

Without arguments, every suite in the project's suites directory
(paths.suites in .ipsbench.yaml) is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				project, err := loadProject()
				if err != nil {
					return err
				}
				if args, err = projectFiles(project, project.Paths.Suites, ".yaml", ".yml"); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				issues, err := validation.ValidateSuiteFile(path)
				if err != nil {
					return err
				}
				if len(issues) == 0 {
					fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
					continue
				}
				failed++
				fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
				for _, issue := range issues {
					fmt.Fprintf(out, "    %s\n", issue) //nolint:errcheck
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d file(s) failed validation", suite.ErrInvalidSuite, failed, len(args))
			}
			return nil
		},
	}
}
