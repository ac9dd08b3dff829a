package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/llm"

	"github.com/google/uuid"
)

const (
	SemanticMinScore       = 30
	DefaultSemanticPromptN = 20
)

var errNoUsableMatches = errors.New("provider answer has no matches for the offered postings")

// SemanticMatcher asks the provider chain for richer match analysis and falls
// back to the heuristic ranking when every provider is unavailable.
type SemanticMatcher struct {
	rec     *Recommender
	chain   *llm.Chain
	promptN int
	logger  *log.Logger
}

func NewSemanticMatcher(rec *Recommender, chain *llm.Chain, promptN int, logger *log.Logger) *SemanticMatcher {
	if promptN <= 0 {
		promptN = DefaultSemanticPromptN
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SemanticMatcher{rec: rec, chain: chain, promptN: promptN, logger: logger}
}

func (m *SemanticMatcher) Analyze(ctx context.Context, candidateID uuid.UUID, limit int, includeSkillGaps bool) ([]matching.MatchResult, error) {
	cc, err := m.rec.LoadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return m.AnalyzeFor(ctx, cc, limit, includeSkillGaps)
}

func (m *SemanticMatcher) AnalyzeFor(ctx context.Context, cc CandidateContext, limit int, includeSkillGaps bool) ([]matching.MatchResult, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	pool, err := m.rec.Pool(ctx, cc)
	if err != nil {
		return nil, err
	}
	ranked := m.rec.Rank(cc, pool, includeSkillGaps)

	if m.chain.Len() > 0 && len(ranked) > 0 {
		offered := ranked
		if len(offered) > m.promptN {
			offered = offered[:m.promptN]
		}
		byID := make(map[uuid.UUID]job.Posting, len(offered))
		postings := make([]job.Posting, 0, len(offered))
		for _, r := range offered {
			byID[r.JobID] = *r.Job
			postings = append(postings, *r.Job)
		}

		prompt := llm.BuildMatchPrompt(briefFor(cc), postings, includeSkillGaps)
		var results []matching.MatchResult
		name, err := m.chain.Run(ctx, "semantic_match", prompt, func(text string) error {
			var payload llm.MatchPayload
			if err := llm.DecodeJSONObject(text, &payload); err != nil {
				return err
			}
			results = fromProvider(payload, byID, includeSkillGaps)
			if len(results) == 0 {
				return errNoUsableMatches
			}
			return nil
		})
		switch {
		case err == nil:
			source := matching.ProviderSource(name)
			for i := range results {
				results[i].Source = source
			}
			return finalizeSemantic(results, limit), nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		}
		m.logger.Printf("semantic_match candidate=%s status=fallback source=%s", cc.Profile.ID, matching.SourceHeuristic)
	}

	return finalizeSemantic(ranked, limit), nil
}

func finalizeSemantic(items []matching.MatchResult, limit int) []matching.MatchResult {
	out := filterMinScore(items, SemanticMinScore)
	SortMatchResults(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// fromProvider keeps the first answer per offered posting and drops the rest.
func fromProvider(payload llm.MatchPayload, offered map[uuid.UUID]job.Posting, includeSkillGaps bool) []matching.MatchResult {
	seen := make(map[uuid.UUID]struct{}, len(payload.Matches))
	out := make([]matching.MatchResult, 0, len(payload.Matches))
	for _, pm := range payload.Matches {
		id, err := uuid.Parse(strings.TrimSpace(pm.JobID))
		if err != nil {
			continue
		}
		p, ok := offered[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		posting := p
		gaps := []matching.SkillGap{}
		if includeSkillGaps {
			gaps = providerGaps(pm.SkillGaps)
		}
		out = append(out, matching.MatchResult{
			JobID:      id,
			Job:        &posting,
			MatchScore: clampScore(pm.MatchScore),
			SkillsMatch: matching.SkillsMatch{
				Matching:   nonNil(pm.SkillsMatch.Matching),
				Missing:    nonNil(pm.SkillsMatch.Missing),
				Percentage: clampScore(pm.SkillsMatch.Percentage),
			},
			ExperienceMatch: providerFactor(pm.ExperienceMatch),
			SalaryMatch:     providerFactor(pm.SalaryMatch),
			LocationMatch:   providerFactor(pm.LocationMatch),
			OverallAnalysis: strings.TrimSpace(pm.OverallAnalysis),
			Recommendations: nonNil(pm.Recommendations),
			SkillGaps:       gaps,
		})
	}
	return out
}

func providerFactor(f llm.ProviderFactor) matching.FactorMatch {
	return matching.FactorMatch{Score: clampScore(f.Score), Analysis: strings.TrimSpace(f.Analysis)}
}

func providerGaps(in []llm.ProviderGap) []matching.SkillGap {
	out := make([]matching.SkillGap, 0, len(in))
	for _, g := range in {
		skill := strings.TrimSpace(g.Skill)
		if skill == "" {
			continue
		}
		imp := matching.Importance(strings.ToLower(strings.TrimSpace(g.Importance)))
		if !imp.Valid() {
			imp = matching.ImportanceMedium
		}
		suggestion := strings.TrimSpace(g.Suggestion)
		if suggestion == "" {
			suggestion = matching.SuggestionFor(skill, imp)
		}
		out = append(out, matching.SkillGap{Skill: skill, Importance: imp, Suggestion: suggestion})
	}
	return out
}

func briefFor(cc CandidateContext) llm.CandidateBrief {
	b := llm.CandidateBrief{
		Skills:            cc.Skills,
		ExpectedSalary:    cc.Profile.ExpectedSalary,
		YearsOfExperience: cc.Years,
		Summary:           cc.Summary,
	}
	if cc.Profile.Location != nil {
		b.Location = strings.TrimSpace(*cc.Profile.Location)
	}
	if cc.Profile.WorkPreference != nil {
		b.WorkPreference = string(*cc.Profile.WorkPreference)
	}
	return b
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
