package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/llm"

	"github.com/google/uuid"
)

const MaxSkillGapJobs = 10

type OverallGap struct {
	Skill      string              `json:"skill"`
	Importance matching.Importance `json:"importance"`
	Suggestion string              `json:"suggestion"`
	JobCount   int                 `json:"job_count"`
}

type SkillGapReport struct {
	OverallGaps     []OverallGap                      `json:"overall_gaps"`
	PerJobGaps      map[uuid.UUID][]matching.SkillGap `json:"per_job_gaps"`
	Recommendations []string                          `json:"recommendations"`
	Source          string                            `json:"source"`
}

type SkillGapUsecase interface {
	AnalyzeSkillGaps(ctx context.Context, candidateID uuid.UUID, jobIDs []uuid.UUID) (SkillGapReport, error)
}

type SkillGaps struct {
	rec    *Recommender
	chain  *llm.Chain
	logger *log.Logger
}

func NewSkillGapUsecase(rec *Recommender, chain *llm.Chain, logger *log.Logger) *SkillGaps {
	if logger == nil {
		logger = log.Default()
	}
	return &SkillGaps{rec: rec, chain: chain, logger: logger}
}

func (u *SkillGaps) AnalyzeSkillGaps(ctx context.Context, candidateID uuid.UUID, jobIDs []uuid.UUID) (SkillGapReport, error) {
	ids, err := normalizeJobIDs(jobIDs)
	if err != nil {
		return SkillGapReport{}, err
	}

	cc, err := u.rec.LoadCandidate(ctx, candidateID)
	if err != nil {
		return SkillGapReport{}, err
	}

	postings := make([]job.Posting, 0, len(ids))
	for _, id := range ids {
		p, err := u.rec.store.GetJob(ctx, id)
		if err != nil {
			return SkillGapReport{}, storeErr("get job", err)
		}
		postings = append(postings, p)
	}

	if u.chain.Len() > 0 {
		var report SkillGapReport
		prompt := llm.BuildSkillGapPrompt(briefFor(cc), postings)
		name, err := u.chain.Run(ctx, "skill_gaps", prompt, func(text string) error {
			var payload llm.SkillGapPayload
			if err := llm.DecodeJSONObject(text, &payload); err != nil {
				return err
			}
			report = reportFromProvider(payload, postings)
			if len(report.OverallGaps) == 0 && countGaps(report.PerJobGaps) == 0 {
				return errors.New("provider answer lists no gaps")
			}
			return nil
		})
		switch {
		case err == nil:
			report.Source = matching.ProviderSource(name)
			return report, nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return SkillGapReport{}, err
		}
		u.logger.Printf("skill_gaps candidate=%s status=fallback source=%s", cc.Profile.ID, matching.SourceHeuristic)
	}

	return LocalSkillGapReport(cc.Skills, postings), nil
}

func normalizeJobIDs(in []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for _, id := range in {
		if id == uuid.Nil {
			return nil, invalid("job_ids", "must not contain empty ids")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 || len(out) > MaxSkillGapJobs {
		return nil, invalid("job_ids", fmt.Sprintf("must contain between 1 and %d ids", MaxSkillGapJobs))
	}
	return out, nil
}

// LocalSkillGapReport derives gaps from posting skill lists only.
func LocalSkillGapReport(candidateSkills []string, postings []job.Posting) SkillGapReport {
	perJob := make(map[uuid.UUID][]matching.SkillGap, len(postings))
	for _, p := range postings {
		perJob[p.ID] = matching.LocalSkillGaps(candidateSkills, p)
	}
	overall := aggregateGaps(postings, perJob)
	return SkillGapReport{
		OverallGaps:     overall,
		PerJobGaps:      perJob,
		Recommendations: gapRecommendations(overall, len(postings)),
		Source:          matching.SourceHeuristic,
	}
}

func reportFromProvider(payload llm.SkillGapPayload, postings []job.Posting) SkillGapReport {
	perJob := make(map[uuid.UUID][]matching.SkillGap, len(postings))
	for _, p := range postings {
		perJob[p.ID] = []matching.SkillGap{}
	}
	for rawID, gaps := range payload.PerJobGaps {
		id, err := uuid.Parse(strings.TrimSpace(rawID))
		if err != nil {
			continue
		}
		if _, ok := perJob[id]; ok {
			perJob[id] = providerGaps(gaps)
		}
	}

	overall := make([]OverallGap, 0, len(payload.OverallGaps))
	for _, g := range providerGaps(payload.OverallGaps) {
		overall = append(overall, OverallGap{
			Skill:      g.Skill,
			Importance: g.Importance,
			Suggestion: g.Suggestion,
			JobCount:   jobsNeeding(g.Skill, perJob),
		})
	}
	if len(overall) == 0 {
		overall = aggregateGaps(postings, perJob)
	}

	recs := make([]string, 0, len(payload.Recommendations))
	for _, r := range payload.Recommendations {
		if r = strings.TrimSpace(r); r != "" {
			recs = append(recs, r)
		}
	}
	if len(recs) == 0 {
		recs = gapRecommendations(overall, len(postings))
	}
	return SkillGapReport{OverallGaps: overall, PerJobGaps: perJob, Recommendations: recs}
}

// aggregateGaps counts how many postings need each skill, keeping the highest
// importance seen. Postings are visited in request order so output is stable.
func aggregateGaps(postings []job.Posting, perJob map[uuid.UUID][]matching.SkillGap) []OverallGap {
	index := make(map[string]int)
	out := make([]OverallGap, 0)
	for _, p := range postings {
		for _, g := range perJob[p.ID] {
			k := strings.ToLower(strings.TrimSpace(g.Skill))
			if i, ok := index[k]; ok {
				out[i].JobCount++
				if importanceRank(g.Importance) < importanceRank(out[i].Importance) {
					out[i].Importance = g.Importance
					out[i].Suggestion = matching.SuggestionFor(out[i].Skill, g.Importance)
				}
				continue
			}
			index[k] = len(out)
			out = append(out, OverallGap{Skill: g.Skill, Importance: g.Importance, Suggestion: g.Suggestion, JobCount: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].JobCount != out[j].JobCount {
			return out[i].JobCount > out[j].JobCount
		}
		ri, rj := importanceRank(out[i].Importance), importanceRank(out[j].Importance)
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(out[i].Skill) < strings.ToLower(out[j].Skill)
	})
	return out
}

func gapRecommendations(overall []OverallGap, jobs int) []string {
	out := make([]string, 0, 5)
	for i, g := range overall {
		if i == 5 {
			break
		}
		out = append(out, fmt.Sprintf("Learn %s: needed by %d of %d target jobs.", g.Skill, g.JobCount, jobs))
	}
	return out
}

func jobsNeeding(skill string, perJob map[uuid.UUID][]matching.SkillGap) int {
	k := strings.ToLower(strings.TrimSpace(skill))
	n := 0
	for _, gaps := range perJob {
		for _, g := range gaps {
			if strings.ToLower(strings.TrimSpace(g.Skill)) == k {
				n++
				break
			}
		}
	}
	return n
}

func countGaps(perJob map[uuid.UUID][]matching.SkillGap) int {
	n := 0
	for _, gaps := range perJob {
		n += len(gaps)
	}
	return n
}

func importanceRank(i matching.Importance) int {
	switch i {
	case matching.ImportanceCritical:
		return 0
	case matching.ImportanceHigh:
		return 1
	case matching.ImportanceMedium:
		return 2
	}
	return 3
}
