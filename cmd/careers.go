package main

import (
	"github.com/spf13/cobra"
)

func newCareersCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "careers [title]",
		Short: "List the career catalog or show one career",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := startService(ctx, configFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Stop()

			if len(args) == 1 {
				rec, err := svc.CareerByTitle(ctx, args[0])
				if err != nil {
					return err
				}
				return printCareer(cmd.OutOrStdout(), output, rec)
			}

			records, err := svc.AllCareers(ctx)
			if err != nil {
				return err
			}
			return printCareers(cmd.OutOrStdout(), output, records)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
