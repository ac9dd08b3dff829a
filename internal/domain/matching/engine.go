package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
)

var ErrInvalidWeights = errors.New("matching weights must sum to 1.0")

const neutral = 0.5

type Weights struct {
	Skills          float64
	Location        float64
	Salary          float64
	Experience      float64
	WorkArrangement float64
}

var DefaultWeights = Weights{
	Skills:          0.40,
	Location:        0.20,
	Salary:          0.20,
	Experience:      0.10,
	WorkArrangement: 0.10,
}

func init() {
	if err := DefaultWeights.Validate(); err != nil {
		panic(err)
	}
}

func (w Weights) Sum() float64 {
	return w.Skills + w.Location + w.Salary + w.Experience + w.WorkArrangement
}

func (w Weights) Validate() error {
	for _, v := range []float64{w.Skills, w.Location, w.Salary, w.Experience, w.WorkArrangement} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: got %v", ErrInvalidWeights, sum)
	}
	return nil
}

type SubScores struct {
	Skills          float64 `json:"skills"`
	Location        float64 `json:"location"`
	Salary          float64 `json:"salary"`
	Experience      float64 `json:"experience"`
	WorkArrangement float64 `json:"work_arrangement"`
}

type Result struct {
	MatchScore       int
	SubScores        SubScores
	SkillsPercentage int
	MatchingSkills   []string
	MissingSkills    []string
}

type Scorer struct {
	weights Weights
}

var defaultScorer = &Scorer{weights: DefaultWeights}

func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

func DefaultScorer() *Scorer {
	return defaultScorer
}

func (s *Scorer) Weights() Weights {
	if s == nil {
		return DefaultWeights
	}
	return s.weights
}

// Score is deterministic and total.
func Score(c candidate.Profile, p job.Posting) Result {
	return defaultScorer.Score(c, p)
}

func (s *Scorer) Score(c candidate.Profile, p job.Posting) Result {
	w := s.Weights()

	skills, matched, missing := skillScore(c.Skills, PostingSkills(p))
	sub := SubScores{
		Skills:          skills,
		Location:        locationScore(c.Location, p.Location),
		Salary:          salaryScore(c.ExpectedSalary, p.SalaryMin, p.SalaryMax),
		Experience:      experienceScore(c.YearsOfExperience, p.ExperienceTier),
		WorkArrangement: workArrangementScore(c.WorkPreference, p.WorkArrangement),
	}

	total := w.Skills*sub.Skills +
		w.Location*sub.Location +
		w.Salary*sub.Salary +
		w.Experience*sub.Experience +
		w.WorkArrangement*sub.WorkArrangement

	return Result{
		MatchScore:       clampInt(int(math.Round(total*100)), 0, 100),
		SubScores:        sub,
		SkillsPercentage: clampInt(int(math.Round(skills*100)), 0, 100),
		MatchingSkills:   matched,
		MissingSkills:    missing,
	}
}

// PostingSkills returns the required skills, or the preferred ones when none are required.
func PostingSkills(p job.Posting) []string {
	if s := cleanSkills(p.RequiredSkills); len(s) > 0 {
		return s
	}
	return cleanSkills(p.PreferredSkills)
}

// SkillMatches uses case-insensitive containment in either direction.
func SkillMatches(candidateSkills []string, skill string) bool {
	needle := normalize(skill)
	if needle == "" {
		return false
	}
	for _, cs := range candidateSkills {
		cs = normalize(cs)
		if cs == "" {
			continue
		}
		if strings.Contains(cs, needle) || strings.Contains(needle, cs) {
			return true
		}
	}
	return false
}

func skillScore(candidateSkills, postingSkills []string) (float64, []string, []string) {
	if len(postingSkills) == 0 {
		return neutral, []string{}, []string{}
	}
	matched := make([]string, 0, len(postingSkills))
	missing := make([]string, 0)
	for _, ps := range postingSkills {
		if SkillMatches(candidateSkills, ps) {
			matched = append(matched, ps)
			continue
		}
		missing = append(missing, ps)
	}
	return float64(len(matched)) / float64(len(postingSkills)), matched, missing
}

func locationScore(candidateLoc, postingLoc *string) float64 {
	a := normalizePtr(candidateLoc)
	b := normalizePtr(postingLoc)
	if a == "" || b == "" {
		return neutral
	}
	if a == b {
		return 1
	}
	if ca, cb := cityToken(a), cityToken(b); ca != "" && ca == cb {
		return 0.8
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.6
	}
	return 0
}

func salaryScore(expected, min, max *float64) float64 {
	if expected == nil || (min == nil && max == nil) {
		return neutral
	}
	lo, hi := bounds(min, max)
	e := *expected
	if e >= lo && e <= hi {
		return 1
	}
	mid := (lo + hi) / 2
	rng := hi - lo
	if rng <= 0 {
		rng = 0.2 * mid
	}
	if rng <= 0 {
		return neutral
	}
	return math.Max(0, 1-math.Abs(e-mid)/rng)
}

func experienceScore(years *float64, tier *job.ExperienceTier) float64 {
	if years == nil || tier == nil || tier.Rank() < 0 {
		return neutral
	}
	d := InferTier(*years).Rank() - tier.Rank()
	if d < 0 {
		d = -d
	}
	return math.Max(0, 1-float64(d)/3)
}

func workArrangementScore(pref, arrangement *job.WorkArrangement) float64 {
	if pref == nil || *pref == "" || arrangement == nil || *arrangement == "" {
		return neutral
	}
	if strings.EqualFold(string(*pref), string(*arrangement)) {
		return 1
	}
	return 0
}

// InferTier maps years of experience onto the posting tier scale.
func InferTier(years float64) job.ExperienceTier {
	switch {
	case years < 2:
		return job.TierEntry
	case years < 5:
		return job.TierMid
	case years < 10:
		return job.TierSenior
	default:
		return job.TierExecutive
	}
}

func bounds(min, max *float64) (float64, float64) {
	switch {
	case min == nil:
		return *max, *max
	case max == nil:
		return *min, *min
	case *min > *max:
		return *max, *min
	default:
		return *min, *max
	}
}

func cityToken(loc string) string {
	if i := strings.Index(loc, ","); i >= 0 {
		return strings.TrimSpace(loc[:i])
	}
	return strings.TrimSpace(loc)
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return normalize(*s)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
