package main

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"
	"jobmatch/internal/usecase"

	"github.com/spf13/cobra"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		f                    search.Filter
		sortKey, order       string
		salaryMin, salaryMax float64
		candidateID          string
		page, limit          int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a faceted search over the fixtures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Sort = search.SortKey(sortKey)
			f.Order = search.SortOrder(order)
			if cmd.Flags().Changed("salary-min") {
				f.SalaryMin = &salaryMin
			}
			if cmd.Flags().Changed("salary-max") {
				f.SalaryMax = &salaryMax
			}
			params := usecase.SearchParams{Filter: f, Page: page, Limit: limit}
			if candidateID != "" {
				id, err := parseID("candidate", candidateID)
				if err != nil {
					return err
				}
				params.CandidateID = &id
			}

			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Search.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewSearchResponse(res))
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.Query, "query", "q", "", "Free text")
	fl.StringVar(&f.Location, "location", "", "Location substring")
	fl.StringVar(&f.Employer, "employer", "", "Exact employer name")
	fl.StringVar(&f.WorkArrangement, "work-arrangement", "", "remote, hybrid or onsite")
	fl.StringVar(&f.EmploymentType, "employment-type", "", "Employment type")
	fl.StringVar(&f.ExperienceTier, "tier", "", "entry, mid, senior or executive")
	fl.StringVar(&f.CategoryID, "category", "", "Category id")
	fl.StringSliceVar(&f.Skills, "skills", nil, "Skills, any of which must match")
	fl.Float64Var(&salaryMin, "salary-min", 0, "Salary floor")
	fl.Float64Var(&salaryMax, "salary-max", 0, "Salary ceiling")
	fl.IntVar(&f.PostedWithinDays, "posted-within", 0, "Only postings published within this many days")
	fl.StringVar(&sortKey, "sort", "", "relevance or date")
	fl.StringVar(&order, "order", "", "asc or desc")
	fl.StringVarP(&candidateID, "candidate", "c", "", "Annotate results for this candidate")
	fl.IntVar(&page, "page", 0, "Page number (default 1)")
	fl.IntVarP(&limit, "limit", "l", 0, "Page size (default 20)")
	return cmd
}

func newTrendingCmd(root *rootOptions) *cobra.Command {
	var (
		limit    int
		featured bool
	)
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Print the trending or featured feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			load := c.Discovery.Trending
			if featured {
				load = c.Discovery.Featured
			}
			items, err := load(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewJobResponses(items))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Feed size (default 10)")
	cmd.Flags().BoolVar(&featured, "featured", false, "Restrict to complete postings")
	return cmd
}

func newSimilarCmd(root *rootOptions) *cobra.Command {
	var (
		jobID        string
		limit        int
		sameEmployer bool
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List postings related to a posting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("job", jobID)
			if err != nil {
				return err
			}
			c, err := root.openEngine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			var items []job.Posting
			if sameEmployer {
				items, err = c.Discovery.ByEmployer(cmd.Context(), id, limit)
			} else {
				items, err = c.Discovery.Similar(cmd.Context(), id, limit)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewJobResponses(items))
		},
	}
	cmd.Flags().StringVarP(&jobID, "job", "j", "", "Source job id (required)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of results (default 10)")
	cmd.Flags().BoolVar(&sameEmployer, "employer", false, "Only postings from the same employer")
	mustMarkRequired(cmd, "job")
	return cmd
}
