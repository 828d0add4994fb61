package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codereward/internal/rubric"
	"github.com/dshills/codereward/internal/schema"
)

func newRubricsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rubrics [name|file.yaml]",
		Short: "List built-in rubrics, or show and validate one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				names, err := rubric.List()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			r, err := rubric.Resolve(args[0])
			if err != nil {
				return err
			}
			o.logger.Debug("rubric resolved", zap.String("ref", args[0]), zap.String("name", r.Name))
			fmt.Fprint(out, rubric.Format(r))
			if errs := schema.Validate(r); len(errs) > 0 {
				fmt.Fprintln(out, "\n### Validation errors")
				for _, e := range errs {
					fmt.Fprintf(out, "- %s\n", e)
				}
				return exitError(2, "rubric %s is invalid (%d errors)", r.Name, len(errs))
			}
			return nil
		},
	}
}
