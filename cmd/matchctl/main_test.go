package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"jobmatch/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	candidateGo = "22222222-2222-4222-8222-000000000001"
	jobGo       = "11111111-1111-4111-8111-000000000001"
	jobData     = "11111111-1111-4111-8111-000000000002"
	jobApplied  = "11111111-1111-4111-8111-000000000005"
)

func fixturesPath() string {
	return filepath.Join("..", "..", "testdata", "fixtures.json")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommend(t *testing.T) {
	out, err := run(t, "recommend", "-f", fixturesPath(), "-c", candidateGo, "--limit", "3")
	require.NoError(t, err)

	var items []struct {
		JobID      string `json:"job_id"`
		MatchScore int    `json:"match_score"`
		Job        struct {
			Title string `json:"title"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.NotEmpty(t, items)
	assert.LessOrEqual(t, len(items), 3)
	assert.Equal(t, jobGo, items[0].JobID)
	assert.Equal(t, "Backend Engineer (Go)", items[0].Job.Title)
	for _, it := range items {
		assert.NotEqual(t, jobApplied, it.JobID)
	}
}

func TestRecommend_RequiresCandidate(t *testing.T) {
	_, err := run(t, "recommend", "-f", fixturesPath())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate")

	_, err = run(t, "recommend", "-f", fixturesPath(), "-c", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a uuid")
}

func TestRecommend_RequiresFixtures(t *testing.T) {
	t.Setenv("FIXTURES_PATH", "")
	_, err := run(t, "recommend", "-c", candidateGo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIXTURES_PATH")
}

func TestMatch(t *testing.T) {
	out, err := run(t, "match", "-f", fixturesPath(), "-c", candidateGo, "-j", jobData, "--gaps")
	require.NoError(t, err)

	var res struct {
		JobID       string `json:"job_id"`
		MatchScore  int    `json:"match_score"`
		SkillsMatch struct {
			Missing []string `json:"missing"`
		} `json:"skills_match"`
		SkillGaps []struct {
			Skill string `json:"skill"`
		} `json:"skill_gaps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, jobData, res.JobID)
	assert.GreaterOrEqual(t, res.MatchScore, 0)
	assert.LessOrEqual(t, res.MatchScore, 100)
	assert.NotEmpty(t, res.SkillGaps)
}

func TestMatch_UnknownJob(t *testing.T) {
	_, err := run(t, "match", "-f", fixturesPath(), "-c", candidateGo, "-j", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSkillGaps(t *testing.T) {
	out, err := run(t, "skill-gaps", "-f", fixturesPath(), "-c", candidateGo, "-j", jobData+","+jobGo)
	require.NoError(t, err)

	var report struct {
		OverallGaps []struct {
			Skill    string `json:"skill"`
			JobCount int    `json:"job_count"`
		} `json:"overall_gaps"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "heuristic", report.Source)
	require.NotEmpty(t, report.OverallGaps)
}

func TestSearch(t *testing.T) {
	out, err := run(t, "search", "-f", fixturesPath(), "--skills", "Go", "--work-arrangement", "remote")
	require.NoError(t, err)

	var res struct {
		Total int `json:"total"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
}

func TestSearch_InvalidSort(t *testing.T) {
	_, err := run(t, "search", "-f", fixturesPath(), "--sort", "popularity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort")
}

func TestTrendingAndSimilar(t *testing.T) {
	out, err := run(t, "trending", "-f", fixturesPath(), "-l", "2")
	require.NoError(t, err)
	var feed []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &feed))
	assert.Len(t, feed, 2)

	out, err = run(t, "similar", "-f", fixturesPath(), "-j", jobGo, "--employer")
	require.NoError(t, err)
	var same []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &same))
	assert.Len(t, same, 2)
	for _, p := range same {
		assert.NotEqual(t, jobGo, p.ID)
	}
}

func TestToken(t *testing.T) {
	out, err := run(t, "token", "-c", candidateGo, "--secret", "s3cret", "--email", "a@b.c")
	require.NoError(t, err)

	claims, err := jwt.NewHMACService("s3cret", 0).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, candidateGo, claims.CandidateID.String())
	assert.Equal(t, "a@b.c", claims.Email)

	t.Setenv("JWT_ACCESS_SECRET", "")
	_, err = run(t, "token", "-c", candidateGo)
	require.Error(t, err)
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}
