package matching

import (
	"fmt"
	"math"
	"strings"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

func (i Importance) Valid() bool {
	switch i {
	case ImportanceCritical, ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

const SourceHeuristic = "heuristic"

func ProviderSource(name string) string {
	return "provider:" + name
}

type SkillsMatch struct {
	Matching   []string `json:"matching"`
	Missing    []string `json:"missing"`
	Percentage int      `json:"percentage"`
}

type FactorMatch struct {
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

type SkillGap struct {
	Skill      string     `json:"skill"`
	Importance Importance `json:"importance"`
	Suggestion string     `json:"suggestion"`
}

type MatchResult struct {
	JobID           uuid.UUID    `json:"job_id"`
	Job             *job.Posting `json:"-"`
	MatchScore      int          `json:"match_score"`
	SkillsMatch     SkillsMatch  `json:"skills_match"`
	ExperienceMatch FactorMatch  `json:"experience_match"`
	SalaryMatch     FactorMatch  `json:"salary_match"`
	LocationMatch   FactorMatch  `json:"location_match"`
	OverallAnalysis string       `json:"overall_analysis"`
	Recommendations []string     `json:"recommendations"`
	SkillGaps       []SkillGap   `json:"skill_gaps"`
	Source          string       `json:"source"`
}

// Explain scores the pair and renders short deterministic analysis text.
func (s *Scorer) Explain(c candidate.Profile, p job.Posting, includeGaps bool) MatchResult {
	res := s.Score(c, p)
	posting := p

	out := MatchResult{
		JobID:      p.ID,
		Job:        &posting,
		MatchScore: res.MatchScore,
		SkillsMatch: SkillsMatch{
			Matching:   res.MatchingSkills,
			Missing:    res.MissingSkills,
			Percentage: res.SkillsPercentage,
		},
		ExperienceMatch: FactorMatch{Score: percent(res.SubScores.Experience), Analysis: experienceAnalysis(c, p, res.SubScores.Experience)},
		SalaryMatch:     FactorMatch{Score: percent(res.SubScores.Salary), Analysis: salaryAnalysis(c, p, res.SubScores.Salary)},
		LocationMatch:   FactorMatch{Score: percent(res.SubScores.Location), Analysis: locationAnalysis(c, p, res.SubScores.Location)},
		OverallAnalysis: overallAnalysis(res),
		Recommendations: recommendationsFor(res.MissingSkills),
		SkillGaps:       []SkillGap{},
		Source:          SourceHeuristic,
	}
	if includeGaps {
		out.SkillGaps = LocalSkillGaps(c.Skills, p)
	}
	return out
}

// LocalSkillGaps lists missing required skills as high and missing preferred skills as medium.
func LocalSkillGaps(candidateSkills []string, p job.Posting) []SkillGap {
	out := make([]SkillGap, 0)
	seen := make(map[string]struct{})
	add := func(skills []string, imp Importance) {
		for _, s := range cleanSkills(skills) {
			k := normalize(s)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if SkillMatches(candidateSkills, s) {
				continue
			}
			out = append(out, SkillGap{Skill: s, Importance: imp, Suggestion: SuggestionFor(s, imp)})
		}
	}
	add(p.RequiredSkills, ImportanceHigh)
	add(p.PreferredSkills, ImportanceMedium)
	return out
}

func SuggestionFor(skill string, imp Importance) string {
	switch imp {
	case ImportanceCritical, ImportanceHigh:
		return fmt.Sprintf("Build hands-on experience with %s through a project or course.", skill)
	default:
		return fmt.Sprintf("Consider learning the basics of %s.", skill)
	}
}

func recommendationsFor(missing []string) []string {
	out := make([]string, 0, 3)
	for i, s := range missing {
		if i == 3 {
			break
		}
		out = append(out, fmt.Sprintf("Highlight or develop %s experience.", s))
	}
	return out
}

func overallAnalysis(res Result) string {
	var level string
	switch {
	case res.MatchScore >= 80:
		level = "Strong match"
	case res.MatchScore >= 60:
		level = "Good match"
	case res.MatchScore >= 40:
		level = "Partial match"
	default:
		level = "Weak match"
	}
	total := len(res.MatchingSkills) + len(res.MissingSkills)
	if total == 0 {
		return fmt.Sprintf("%s (score %d). The posting lists no skills.", level, res.MatchScore)
	}
	return fmt.Sprintf("%s (score %d). %d of %d listed skills matched.", level, res.MatchScore, len(res.MatchingSkills), total)
}

func experienceAnalysis(c candidate.Profile, p job.Posting, score float64) string {
	if c.YearsOfExperience == nil || p.ExperienceTier == nil || p.ExperienceTier.Rank() < 0 {
		return "Experience level could not be compared."
	}
	inferred := InferTier(*c.YearsOfExperience)
	if score == 1 {
		return fmt.Sprintf("Experience level matches the %s tier.", *p.ExperienceTier)
	}
	return fmt.Sprintf("Candidate profile reads as %s; posting targets %s.", inferred, *p.ExperienceTier)
}

func salaryAnalysis(c candidate.Profile, p job.Posting, score float64) string {
	if c.ExpectedSalary == nil || !p.HasSalary() {
		return "Salary information is incomplete."
	}
	switch {
	case score == 1:
		return "Expected salary is within the offered range."
	case score >= 0.5:
		return "Expected salary is close to the offered range."
	default:
		return "Expected salary is far from the offered range."
	}
}

func locationAnalysis(c candidate.Profile, p job.Posting, score float64) string {
	if normalizePtr(c.Location) == "" || p.LocationName() == "" {
		return "Location could not be compared."
	}
	switch {
	case score == 1:
		return "Location matches exactly."
	case score >= 0.8:
		return "Same city."
	case score > 0:
		return "Locations overlap partially."
	default:
		return fmt.Sprintf("Posting is located in %s.", strings.TrimSpace(p.LocationName()))
	}
}

func percent(v float64) int {
	return clampInt(int(math.Round(v*100)), 0, 100)
}
