package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/careerpath/internal/domain/model"
)

func newRecommendCmd() *cobra.Command {
	var (
		skills    []string
		interests []string
		topN      int
		mode      string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend careers for the given skills and interests",
		Example: `  careerpath recommend --skill python --skill statistics --interest finance
  careerpath recommend --interest design --mode rule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			m, err := model.ParseMode(mode)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := startService(ctx, configFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Stop()

			rec, err := svc.Recommend(ctx, model.Query{
				Skills:    skills,
				Interests: interests,
				TopN:      topN,
				Mode:      m,
			})
			if err != nil {
				return err
			}
			return printRecommendation(cmd.OutOrStdout(), output, rec)
		},
	}

	// StringArray keeps commas inside a value, e.g. "UI/UX, Design".
	cmd.Flags().StringArrayVarP(&skills, "skill", "s", nil, "a skill; repeat for more")
	cmd.Flags().StringArrayVarP(&interests, "interest", "i", nil, "an interest; repeat for more")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of results in ai mode (default from config)")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(model.ModeAI), "ai or rule")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
