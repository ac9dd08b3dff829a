package matching

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func tierPtr(t job.ExperienceTier) *job.ExperienceTier { return &t }
func workPtr(w job.WorkArrangement) *job.WorkArrangement { return &w }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if !almostEqual(DefaultWeights.Sum(), 1) {
		t.Fatalf("expected weights to sum to 1, got %v", DefaultWeights.Sum())
	}
	if err := DefaultWeights.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestNewScorer_RejectsBadWeights(t *testing.T) {
	_, err := NewScorer(Weights{Skills: 0.5, Location: 0.5, Salary: 0.5})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
	_, err = NewScorer(Weights{Skills: 1.2, Location: -0.2})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights for negative weight, got %v", err)
	}
	s, err := NewScorer(Weights{Skills: 1})
	if err != nil || s == nil {
		t.Fatalf("expected valid scorer, got %v", err)
	}
}

func TestScore_PartialSkillsWithUnknowns(t *testing.T) {
	c := candidate.Profile{Skills: []string{"Python", "SQL"}}
	p := job.Posting{ID: uuid.New(), RequiredSkills: []string{"python", "sql", "aws"}}

	res := Score(c, p)
	if !almostEqual(res.SubScores.Skills, 2.0/3.0) {
		t.Fatalf("expected skills sub-score 2/3, got %v", res.SubScores.Skills)
	}
	// 0.4*2/3 + 0.2*0.5 + 0.2*0.5 + 0.1*0.5 + 0.1*0.5 = 0.5667
	if res.MatchScore != 57 {
		t.Fatalf("expected match score 57, got %d", res.MatchScore)
	}
	if res.SkillsPercentage != 67 {
		t.Fatalf("expected percentage 67, got %d", res.SkillsPercentage)
	}
	if !reflect.DeepEqual(res.MatchingSkills, []string{"python", "sql"}) {
		t.Fatalf("unexpected matching skills: %v", res.MatchingSkills)
	}
	if !reflect.DeepEqual(res.MissingSkills, []string{"aws"}) {
		t.Fatalf("unexpected missing skills: %v", res.MissingSkills)
	}
}

func TestScore_SkillsNeutralWhenPostingListsNone(t *testing.T) {
	res := Score(candidate.Profile{Skills: []string{"Go"}}, job.Posting{})
	if res.SubScores.Skills != 0.5 {
		t.Fatalf("expected neutral skills score, got %v", res.SubScores.Skills)
	}
	if res.SkillsPercentage != 50 {
		t.Fatalf("expected percentage 50, got %d", res.SkillsPercentage)
	}
	if res.MatchScore != 50 {
		t.Fatalf("expected 50 with every factor neutral, got %d", res.MatchScore)
	}
}

func TestScore_FallsBackToPreferredSkills(t *testing.T) {
	p := job.Posting{PreferredSkills: []string{"Docker", "Kubernetes"}}
	res := Score(candidate.Profile{Skills: []string{"docker"}}, p)
	if res.SubScores.Skills != 0.5 || len(res.MatchingSkills) != 1 {
		t.Fatalf("expected 1 of 2 preferred skills, got %v %v", res.SubScores.Skills, res.MatchingSkills)
	}
}

func TestScore_SkillContainmentEitherDirection(t *testing.T) {
	p := job.Posting{RequiredSkills: []string{"React", "PostgreSQL"}}
	res := Score(candidate.Profile{Skills: []string{"React Native", "postgres"}}, p)
	if res.SubScores.Skills != 1 {
		t.Fatalf("expected both skills matched, got %v (%v)", res.SubScores.Skills, res.MissingSkills)
	}
}

func TestSalaryScore(t *testing.T) {
	tests := []struct {
		name     string
		expected *float64
		min      *float64
		max      *float64
		want     float64
	}{
		{name: "within range", expected: floatPtr(80000), min: floatPtr(70000), max: floatPtr(90000), want: 1},
		{name: "on boundary", expected: floatPtr(90000), min: floatPtr(70000), max: floatPtr(90000), want: 1},
		{name: "outside range", expected: floatPtr(95000), min: floatPtr(70000), max: floatPtr(90000), want: 0.25},
		{name: "far outside", expected: floatPtr(200000), min: floatPtr(70000), max: floatPtr(90000), want: 0},
		{name: "collapsed range", expected: floatPtr(110000), min: floatPtr(100000), max: floatPtr(100000), want: 0.5},
		{name: "only max known", expected: floatPtr(90000), max: floatPtr(100000), want: 0.5},
		{name: "unknown expectation", min: floatPtr(1), max: floatPtr(2), want: 0.5},
		{name: "unknown range", expected: floatPtr(1), want: 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := salaryScore(tc.expected, tc.min, tc.max)
			if !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name string
		a, b *string
		want float64
	}{
		{name: "exact", a: strPtr("Jakarta"), b: strPtr(" jakarta "), want: 1},
		{name: "same city", a: strPtr("Berlin, Germany"), b: strPtr("Berlin, DE"), want: 0.8},
		{name: "containment", a: strPtr("Greater London"), b: strPtr("London"), want: 0.6},
		{name: "different", a: strPtr("Paris"), b: strPtr("Tokyo"), want: 0},
		{name: "candidate unknown", b: strPtr("Tokyo"), want: 0.5},
		{name: "posting blank", a: strPtr("Tokyo"), b: strPtr("  "), want: 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := locationScore(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestExperienceScore(t *testing.T) {
	if got := experienceScore(floatPtr(3), tierPtr(job.TierMid)); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := experienceScore(floatPtr(3), tierPtr(job.TierSenior)); !almostEqual(got, 2.0/3.0) {
		t.Fatalf("expected 2/3, got %v", got)
	}
	if got := experienceScore(floatPtr(0), tierPtr(job.TierExecutive)); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := experienceScore(nil, tierPtr(job.TierExecutive)); got != 0.5 {
		t.Fatalf("expected neutral, got %v", got)
	}
	if got := experienceScore(floatPtr(4), tierPtr("principal")); got != 0.5 {
		t.Fatalf("expected neutral for unknown tier, got %v", got)
	}
}

func TestInferTier(t *testing.T) {
	cases := map[float64]job.ExperienceTier{
		0: job.TierEntry, 1.9: job.TierEntry, 2: job.TierMid, 4.5: job.TierMid,
		5: job.TierSenior, 9: job.TierSenior, 10: job.TierExecutive, 25: job.TierExecutive,
	}
	for years, want := range cases {
		if got := InferTier(years); got != want {
			t.Fatalf("years=%v expected %s, got %s", years, want, got)
		}
	}
}

func TestWorkArrangementScore(t *testing.T) {
	if got := workArrangementScore(workPtr(job.WorkRemote), workPtr(job.WorkRemote)); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := workArrangementScore(workPtr(job.WorkRemote), workPtr(job.WorkOnsite)); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := workArrangementScore(nil, workPtr(job.WorkOnsite)); got != 0.5 {
		t.Fatalf("expected neutral, got %v", got)
	}
}

func TestScore_BoundsAndMonotonicity(t *testing.T) {
	p := job.Posting{
		RequiredSkills:  []string{"Go", "Kafka", "PostgreSQL", "Docker", "AWS"},
		Location:        strPtr("Remote"),
		WorkArrangement: workPtr(job.WorkRemote),
		ExperienceTier:  tierPtr(job.TierSenior),
		SalaryMin:       floatPtr(100000),
		SalaryMax:       floatPtr(140000),
	}
	c := candidate.Profile{
		Location:          strPtr("Lisbon"),
		ExpectedSalary:    floatPtr(300000),
		WorkPreference:    workPtr(job.WorkOnsite),
		YearsOfExperience: floatPtr(1),
	}

	prev := -1
	for i := 0; i <= len(p.RequiredSkills); i++ {
		c.Skills = p.RequiredSkills[:i]
		res := Score(c, p)
		if res.MatchScore < 0 || res.MatchScore > 100 {
			t.Fatalf("score out of bounds: %d", res.MatchScore)
		}
		if res.MatchScore < prev {
			t.Fatalf("score decreased from %d to %d after adding a skill", prev, res.MatchScore)
		}
		prev = res.MatchScore
	}
}

func TestScore_Deterministic(t *testing.T) {
	c := candidate.Profile{Skills: []string{"Python"}, Location: strPtr("Berlin"), ExpectedSalary: floatPtr(60000)}
	p := job.Posting{RequiredSkills: []string{"Python", "Spark"}, Location: strPtr("Berlin, Germany"), SalaryMin: floatPtr(50000), SalaryMax: floatPtr(70000)}
	a := Score(c, p)
	b := Score(c, p)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestExplain_LocalSkillGaps(t *testing.T) {
	p := job.Posting{
		ID:              uuid.New(),
		RequiredSkills:  []string{"Go", "Kubernetes"},
		PreferredSkills: []string{"Terraform", "go"},
	}
	c := candidate.Profile{Skills: []string{"Go"}}

	out := DefaultScorer().Explain(c, p, true)
	if out.JobID != p.ID || out.Source != SourceHeuristic {
		t.Fatalf("unexpected result header: %+v", out)
	}
	want := []SkillGap{
		{Skill: "Kubernetes", Importance: ImportanceHigh, Suggestion: SuggestionFor("Kubernetes", ImportanceHigh)},
		{Skill: "Terraform", Importance: ImportanceMedium, Suggestion: SuggestionFor("Terraform", ImportanceMedium)},
	}
	if !reflect.DeepEqual(out.SkillGaps, want) {
		t.Fatalf("unexpected gaps: %+v", out.SkillGaps)
	}

	noGaps := DefaultScorer().Explain(c, p, false)
	if noGaps.SkillGaps == nil || len(noGaps.SkillGaps) != 0 {
		t.Fatalf("expected empty gaps, got %+v", noGaps.SkillGaps)
	}
}

func TestDetectSkills(t *testing.T) {
	got := DetectSkills("Built billing services with PostgreSQL and Docker.", "Frontend in JavaScript; some C++ tooling")
	want := map[string]bool{"PostgreSQL": true, "Docker": true, "JavaScript": true, "C++": true}
	if len(got) != len(want) {
		t.Fatalf("unexpected skills: %v", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Fatalf("unexpected skill %q in %v", s, got)
		}
	}
}

func TestMergeSkills(t *testing.T) {
	got := MergeSkills([]string{"Go", " SQL "}, []string{"go", "Docker", ""})
	if !reflect.DeepEqual(got, []string{"Go", "SQL", "Docker"}) {
		t.Fatalf("unexpected merge: %v", got)
	}
}
