package llm

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

// stubbornProvider ignores its context entirely.
type stubbornProvider struct{ release chan struct{} }

func (s *stubbornProvider) Name() string { return "stubborn" }

func (s *stubbornProvider) Generate(context.Context, string) (string, error) {
	<-s.release
	return `{"ok":true}`, nil
}

func decodeInto(v any) func(string) error {
	return func(text string) error { return DecodeJSONObject(text, v) }
}

func TestChain_FirstAcceptedProviderWins(t *testing.T) {
	var buf bytes.Buffer
	first := &stubProvider{name: "first", text: `{"matches":[]}`}
	second := &stubProvider{name: "second", text: `{"matches":[]}`}
	chain := NewChain(time.Second, log.New(&buf, "", 0), first, second)

	var out MatchPayload
	name, err := chain.Run(context.Background(), "semantic_match", "p", decodeInto(&out))
	require.NoError(t, err)
	assert.Equal(t, "first", name)
	assert.EqualValues(t, 0, atomic.LoadInt32(&second.calls))
	assert.Contains(t, buf.String(), "provider=first status=ok")
}

func TestChain_TimeoutThenMalformedIsUnavailable(t *testing.T) {
	var buf bytes.Buffer
	slow := &stubProvider{name: "slow", text: `{"matches":[]}`, delay: time.Second}
	garbage := &stubProvider{name: "garbage", text: "sorry, I cannot help with that"}
	chain := NewChain(20*time.Millisecond, log.New(&buf, "", 0), slow, garbage)

	var out MatchPayload
	_, err := chain.Run(context.Background(), "semantic_match", "p", decodeInto(&out))
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.EqualValues(t, 1, atomic.LoadInt32(&garbage.calls))
	assert.Contains(t, buf.String(), "provider=slow status=unavailable")
	assert.Contains(t, buf.String(), "provider=garbage status=unavailable")
}

func TestChain_TransportErrorAdvances(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("connection refused")}
	ok := &stubProvider{name: "ok", text: "here you go: {\"matches\":[{\"job_id\":\"x\",\"match_score\":70}]}"}
	chain := NewChain(time.Second, log.New(&bytes.Buffer{}, "", 0), broken, ok)

	var out MatchPayload
	name, err := chain.Run(context.Background(), "semantic_match", "p", decodeInto(&out))
	require.NoError(t, err)
	assert.Equal(t, "ok", name)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, 70.0, out.Matches[0].MatchScore)
}

func TestChain_TimeoutEnforcedForProvidersIgnoringContext(t *testing.T) {
	p := &stubbornProvider{release: make(chan struct{})}
	defer close(p.release)
	chain := NewChain(20*time.Millisecond, log.New(&bytes.Buffer{}, "", 0), p)

	start := time.Now()
	_, err := chain.Run(context.Background(), "semantic_match", "p", nil)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChain_CallerCancellationStopsChain(t *testing.T) {
	slow := &stubProvider{name: "slow", text: `{}`, delay: time.Second}
	next := &stubProvider{name: "next", text: `{}`}
	chain := NewChain(5*time.Second, log.New(&bytes.Buffer{}, "", 0), slow, next)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := chain.Run(ctx, "semantic_match", "p", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrProviderUnavailable))
	assert.EqualValues(t, 0, atomic.LoadInt32(&next.calls))
}

func TestChain_EmptyIsUnavailable(t *testing.T) {
	chain := NewChain(0, nil)
	_, err := chain.Run(context.Background(), "op", "p", nil)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 0, chain.Len())
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", in: "Sure!\n```json\n{\"a\":{\"b\":2}}\n```\nThanks", want: `{"a":{"b":2}}`},
		{name: "braces in strings", in: `x {"s":"}{ \"}\" {"} tail }`, want: `{"s":"}{ \"}\" {"}`},
		{name: "first of two", in: `{"a":1} {"b":2}`, want: `{"a":1}`},
		{name: "unbalanced", in: `{"a":{"b":1}`, err: true},
		{name: "no object", in: `no json here`, err: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			if tc.err {
				assert.ErrorIs(t, err, ErrNoJSONObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeJSONObject_RejectsInvalidJSON(t *testing.T) {
	var v map[string]any
	err := DecodeJSONObject(`{"a": nope}`, &v)
	require.Error(t, err)
}

func TestBuildMatchPrompt_SkillGapRequestIsOptional(t *testing.T) {
	employer := "Acme"
	p := job.Posting{ID: uuid.New(), Title: "Data Engineer", Employer: &employer, RequiredSkills: []string{"Python", "SQL"}}
	brief := CandidateBrief{Skills: []string{"Python"}, Summary: "Analyst"}

	without := BuildMatchPrompt(brief, []job.Posting{p}, false)
	with := BuildMatchPrompt(brief, []job.Posting{p}, true)

	assert.NotContains(t, without, "skill_gaps")
	assert.Contains(t, with, "skill_gaps")
	assert.Contains(t, without, p.ID.String())
	assert.Contains(t, without, "required=Python, SQL")
	assert.True(t, strings.HasPrefix(without, "You are a recruiting assistant"))
}

func TestWithRateLimit(t *testing.T) {
	base := &stubProvider{name: "base", text: "ok"}
	assert.Same(t, Provider(base), WithRateLimit(base, 0, 0))

	limited := WithRateLimit(base, 60, 1)
	assert.Equal(t, "base", limited.Name())
	out, err := limited.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limited.Generate(ctx, "p")
	assert.Error(t, err)
}
