package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/okian/careerpath/internal/domain/assessment"
)

var errAborted = errors.New("assessment aborted")

// chooser picks one option of a question.
type chooser func(q assessment.Question) (string, error)

// promptChooser asks on the terminal.
func promptChooser(q assessment.Question) (string, error) {
	prompt := promptui.Select{
		Label: q.Question,
		Items: q.Options,
		Size:  len(q.Options),
	}
	_, answer, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", errAborted
	}
	return answer, err
}

func newAssessCmdWith(choose chooser) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Take the career assessment and get recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := startService(ctx, configFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Stop()

			questions := svc.AssessmentQuestions()
			answers := make([]string, 0, len(questions))
			for _, q := range questions {
				answer, err := choose(q)
				if err != nil {
					return fmt.Errorf("%s: %w", q.Question, err)
				}
				answers = append(answers, answer)
			}

			rec, err := svc.SubmitAssessment(ctx, answers)
			if err != nil {
				return err
			}
			return printRecommendation(cmd.OutOrStdout(), output, rec)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
