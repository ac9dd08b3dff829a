package main

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var (
		candidateID string
		params      usecase.RecommendationParams
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend postings for a candidate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("candidate", candidateID)
			if err != nil {
				return err
			}
			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			items, err := c.Recommendations.GetRecommendations(cmd.Context(), id, params)
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewMatchResponses(items))
		},
	}
	cmd.Flags().StringVarP(&candidateID, "candidate", "c", "", "Candidate id (required)")
	cmd.Flags().IntVarP(&params.Limit, "limit", "l", 0, "Maximum number of results (default 10)")
	cmd.Flags().IntVar(&params.MinScore, "min-score", 0, "Drop results scoring below this value")
	cmd.Flags().BoolVar(&params.Semantic, "semantic", false, "Ask the provider chain before falling back to heuristics")
	cmd.Flags().BoolVar(&params.IncludeSkillGaps, "gaps", false, "Include skill gaps")
	mustMarkRequired(cmd, "candidate")
	return cmd
}

func newMatchCmd(root *rootOptions) *cobra.Command {
	var (
		candidateID, jobID string
		includeGaps        bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Explain the score of one posting for a candidate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cid, err := parseID("candidate", candidateID)
			if err != nil {
				return err
			}
			jid, err := parseID("job", jobID)
			if err != nil {
				return err
			}
			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Matching.CalculateMatch(cmd.Context(), cid, jid, includeGaps)
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewMatchResponse(res))
		},
	}
	cmd.Flags().StringVarP(&candidateID, "candidate", "c", "", "Candidate id (required)")
	cmd.Flags().StringVarP(&jobID, "job", "j", "", "Job id (required)")
	cmd.Flags().BoolVar(&includeGaps, "gaps", false, "Include skill gaps")
	mustMarkRequired(cmd, "candidate", "job")
	return cmd
}

func newSkillGapsCmd(root *rootOptions) *cobra.Command {
	var (
		candidateID string
		jobIDs      []string
	)
	cmd := &cobra.Command{
		Use:   "skill-gaps",
		Short: "Analyze what a candidate lacks for a set of postings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cid, err := parseID("candidate", candidateID)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(jobIDs))
			for _, raw := range jobIDs {
				id, err := parseID("job", raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.SkillGaps.AnalyzeSkillGaps(cmd.Context(), cid, ids)
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
	cmd.Flags().StringVarP(&candidateID, "candidate", "c", "", "Candidate id (required)")
	cmd.Flags().StringSliceVarP(&jobIDs, "job", "j", nil, "Job id, repeatable or comma separated (1 to 10)")
	mustMarkRequired(cmd, "candidate", "job")
	return cmd
}
