package llm

import (
	"fmt"
	"strings"

	"jobmatch/internal/domain/job"
)

// CandidateBrief is the candidate context sent to providers.
type CandidateBrief struct {
	Skills            []string
	Location          string
	ExpectedSalary    *float64
	WorkPreference    string
	YearsOfExperience *float64
	Summary           string
}

// MatchPayload is the structured answer expected for a match prompt.
type MatchPayload struct {
	Matches []ProviderMatch `json:"matches"`
}

type ProviderMatch struct {
	JobID           string         `json:"job_id"`
	MatchScore      float64        `json:"match_score"`
	SkillsMatch     ProviderSkills `json:"skills_match"`
	ExperienceMatch ProviderFactor `json:"experience_match"`
	SalaryMatch     ProviderFactor `json:"salary_match"`
	LocationMatch   ProviderFactor `json:"location_match"`
	OverallAnalysis string         `json:"overall_analysis"`
	Recommendations []string       `json:"recommendations"`
	SkillGaps       []ProviderGap  `json:"skill_gaps"`
}

type ProviderSkills struct {
	Matching   []string `json:"matching"`
	Missing    []string `json:"missing"`
	Percentage float64  `json:"percentage"`
}

type ProviderFactor struct {
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

type ProviderGap struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	Suggestion string `json:"suggestion"`
}

// SkillGapPayload is the structured answer expected for a skill-gap prompt.
type SkillGapPayload struct {
	OverallGaps     []ProviderGap            `json:"overall_gaps"`
	PerJobGaps      map[string][]ProviderGap `json:"per_job_gaps"`
	Recommendations []string                 `json:"recommendations"`
}

func BuildMatchPrompt(c CandidateBrief, postings []job.Posting, includeSkillGaps bool) string {
	var b strings.Builder
	b.WriteString("You are a recruiting assistant. Score how well the candidate fits each job posting.\n\n")
	writeCandidate(&b, c)

	b.WriteString("\nJOB POSTINGS:\n")
	for _, p := range postings {
		writePosting(&b, p)
	}

	b.WriteString("\nRespond with ONE JSON object and nothing else, shaped as:\n")
	b.WriteString(`{"matches":[{"job_id":"<id from the list>","match_score":0-100,`)
	b.WriteString(`"skills_match":{"matching":[],"missing":[],"percentage":0-100},`)
	b.WriteString(`"experience_match":{"score":0-100,"analysis":""},`)
	b.WriteString(`"salary_match":{"score":0-100,"analysis":""},`)
	b.WriteString(`"location_match":{"score":0-100,"analysis":""},`)
	b.WriteString(`"overall_analysis":"","recommendations":[]`)
	if includeSkillGaps {
		b.WriteString(`,"skill_gaps":[{"skill":"","importance":"critical|high|medium|low","suggestion":""}]`)
	}
	b.WriteString("}]}\n")
	b.WriteString("Only use job_id values from the list above. Keep analysis text to one sentence.\n")
	if includeSkillGaps {
		b.WriteString("For each job, list the skills the candidate lacks in skill_gaps.\n")
	}
	return b.String()
}

func BuildSkillGapPrompt(c CandidateBrief, postings []job.Posting) string {
	var b strings.Builder
	b.WriteString("You are a career coach. Identify the skills this candidate lacks for the listed jobs.\n\n")
	writeCandidate(&b, c)

	b.WriteString("\nTARGET JOBS:\n")
	for _, p := range postings {
		writePosting(&b, p)
	}

	b.WriteString("\nRespond with ONE JSON object and nothing else, shaped as:\n")
	b.WriteString(`{"overall_gaps":[{"skill":"","importance":"critical|high|medium|low","suggestion":""}],`)
	b.WriteString(`"per_job_gaps":{"<job_id>":[{"skill":"","importance":"","suggestion":""}]},`)
	b.WriteString(`"recommendations":[""]}`)
	b.WriteString("\n")
	return b.String()
}

func writeCandidate(b *strings.Builder, c CandidateBrief) {
	b.WriteString("CANDIDATE:\n")
	fmt.Fprintf(b, "- Skills: %s\n", orNone(strings.Join(c.Skills, ", ")))
	fmt.Fprintf(b, "- Location: %s\n", orNone(c.Location))
	if c.ExpectedSalary != nil {
		fmt.Fprintf(b, "- Expected salary: %.0f\n", *c.ExpectedSalary)
	}
	fmt.Fprintf(b, "- Work preference: %s\n", orNone(c.WorkPreference))
	if c.YearsOfExperience != nil {
		fmt.Fprintf(b, "- Years of experience: %.1f\n", *c.YearsOfExperience)
	}
	if s := strings.TrimSpace(c.Summary); s != "" {
		fmt.Fprintf(b, "- Summary: %s\n", truncate(s, 600))
	}
}

func writePosting(b *strings.Builder, p job.Posting) {
	fmt.Fprintf(b, "- job_id=%s | %s", p.ID, p.Title)
	if e := p.EmployerName(); e != "" {
		fmt.Fprintf(b, " | %s", e)
	}
	if l := p.LocationName(); l != "" {
		fmt.Fprintf(b, " | %s", l)
	}
	if p.WorkArrangement != nil {
		fmt.Fprintf(b, " | %s", *p.WorkArrangement)
	}
	if p.ExperienceTier != nil {
		fmt.Fprintf(b, " | tier=%s", *p.ExperienceTier)
	}
	if p.SalaryMin != nil || p.SalaryMax != nil {
		fmt.Fprintf(b, " | salary=%s-%s", amount(p.SalaryMin), amount(p.SalaryMax))
	}
	if len(p.RequiredSkills) > 0 {
		fmt.Fprintf(b, " | required=%s", strings.Join(p.RequiredSkills, ", "))
	}
	if len(p.PreferredSkills) > 0 {
		fmt.Fprintf(b, " | preferred=%s", strings.Join(p.PreferredSkills, ", "))
	}
	b.WriteString("\n")
}

func amount(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.0f", *v)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
