package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codereward/internal/quality"
	"github.com/dshills/codereward/internal/report"
	"github.com/dshills/codereward/internal/reward"
	"github.com/dshills/codereward/internal/snippet"
)

// scoreOutput is printed by the score command.
type scoreOutput struct {
	SnippetID    string   `json:"snippet_id"`
	QualityScore float64  `json:"quality_score"`
	IssuesFound  []string `json:"issues_found"`
	Suggestion   string   `json:"suggestion"`
}

func newScoreCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score [file|-]",
		Short: "Score the quality of a single code snippet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			rub, err := o.loadRubric(cfg)
			if err != nil {
				return err
			}

			var s snippet.Snippet
			if len(args) == 0 || args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				s.Code = string(data)
			} else {
				s, err = snippet.Load(args[0])
				if err != nil {
					return err
				}
			}

			res := quality.New(rub).Score(s.Code)
			return writeLine(cmd.OutOrStdout(), scoreOutput{
				SnippetID:    snippet.Hash(s.Code),
				QualityScore: report.Round(res.Quality),
				IssuesFound:  res.Issues,
				Suggestion:   rub.Suggest(res.Quality, res.Issues),
			})
		},
	}
}

// rewardOutput is printed by the reward command.
type rewardOutput struct {
	Feedback     string  `json:"feedback"`
	RewardSignal float64 `json:"reward_signal"`
}

func newRewardCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reward <feedback...>",
		Short: "Compute the sentiment reward for feedback text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			rub, err := o.loadRubric(cfg)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			return writeLine(cmd.OutOrStdout(), rewardOutput{
				Feedback:     text,
				RewardSignal: report.Round(reward.New(rub).Compute(text)),
			})
		},
	}
}

func writeLine(w io.Writer, v any) error {
	data, err := marshalLine(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
