package search

import (
	"strings"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Filter is a conjunction of optional predicates. Zero values mean "no constraint".
type Filter struct {
	Query            string    `json:"query,omitempty" validate:"max=200"`
	Location         string    `json:"location,omitempty" validate:"max=120"`
	Employer         string    `json:"employer,omitempty" validate:"max=120"`
	WorkArrangement  string    `json:"work_arrangement,omitempty" validate:"omitempty,oneof=remote hybrid onsite"`
	EmploymentType   string    `json:"employment_type,omitempty" validate:"max=40"`
	ExperienceTier   string    `json:"experience_tier,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
	SalaryMin        *float64  `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax        *float64  `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	CategoryID       string    `json:"category_id,omitempty" validate:"max=64"`
	Skills           []string  `json:"skills,omitempty" validate:"max=20,dive,max=64"`
	PostedWithinDays int       `json:"posted_within_days,omitempty" validate:"gte=0,lte=365"`
	Sort             SortKey   `json:"sort,omitempty" validate:"omitempty,oneof=relevance date"`
	Order            SortOrder `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// WithDefaults resolves the sort key and order.
func (f Filter) WithDefaults() Filter {
	if f.Sort == "" {
		if strings.TrimSpace(f.Query) != "" {
			f.Sort = SortRelevance
		} else {
			f.Sort = SortDate
		}
	}
	if f.Order == "" {
		f.Order = OrderDesc
	}
	return f
}

// Needle is the lowercase free-text predicate. Inner whitespace is kept.
func (f Filter) Needle() string {
	return lower(f.Query)
}

// Terms are the relevance variants: the raw query plus its synonym
// expansions. They order results and never widen the filter.
func (f Filter) Terms() []string {
	raw := strings.ToLower(strings.TrimSpace(f.Query))
	if raw == "" {
		return []string{}
	}
	out := []string{raw}
	for _, v := range ProcessQuery(f.Query).Variants {
		if v != raw {
			out = append(out, v)
		}
	}
	return out
}

// Matches applies eligibility plus every predicate in f.
func Matches(p job.Posting, f Filter, now time.Time) bool {
	if !p.Eligible(now) {
		return false
	}
	if needle := f.Needle(); needle != "" && !matchesText(p, needle) {
		return false
	}
	if loc := lower(f.Location); loc != "" && !strings.Contains(lower(p.LocationName()), loc) {
		return false
	}
	if emp := lower(f.Employer); emp != "" && lower(p.EmployerName()) != emp {
		return false
	}
	if f.WorkArrangement != "" && (p.WorkArrangement == nil || string(*p.WorkArrangement) != f.WorkArrangement) {
		return false
	}
	if et := lower(f.EmploymentType); et != "" && (p.EmploymentType == nil || lower(*p.EmploymentType) != et) {
		return false
	}
	if f.ExperienceTier != "" && (p.ExperienceTier == nil || string(*p.ExperienceTier) != f.ExperienceTier) {
		return false
	}
	if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
		return false
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		if !p.HasSalary() {
			return false
		}
		lo, hi := salaryBounds(p)
		if f.SalaryMin != nil && hi < *f.SalaryMin {
			return false
		}
		if f.SalaryMax != nil && lo > *f.SalaryMax {
			return false
		}
	}
	if len(f.Skills) > 0 && !sharesSkill(p, f.Skills) {
		return false
	}
	if f.PostedWithinDays > 0 {
		cutoff := now.Add(-time.Duration(f.PostedWithinDays) * 24 * time.Hour)
		if p.Recency().Before(cutoff) {
			return false
		}
	}
	return true
}

func matchesText(p job.Posting, needle string) bool {
	return strings.Contains(lower(p.Title), needle) ||
		strings.Contains(lower(p.Description), needle) ||
		strings.Contains(lower(p.EmployerName()), needle)
}

func sharesSkill(p job.Posting, skills []string) bool {
	postingSkills := make([]string, 0, len(p.RequiredSkills)+len(p.PreferredSkills))
	postingSkills = append(postingSkills, p.RequiredSkills...)
	postingSkills = append(postingSkills, p.PreferredSkills...)
	for _, s := range skills {
		if matching.SkillMatches(postingSkills, s) {
			return true
		}
	}
	return false
}

// salaryBounds returns the lowest and highest known salary figures.
func salaryBounds(p job.Posting) (float64, float64) {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		if *p.SalaryMin > *p.SalaryMax {
			return *p.SalaryMax, *p.SalaryMin
		}
		return *p.SalaryMin, *p.SalaryMax
	case p.SalaryMin != nil:
		return *p.SalaryMin, *p.SalaryMin
	case p.SalaryMax != nil:
		return *p.SalaryMax, *p.SalaryMax
	}
	return 0, 0
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
