package dto

import "jobmatch/internal/domain/matching"

// MatchResponse is a match explanation with the posting it refers to.
type MatchResponse struct {
	matching.MatchResult
	Job *JobResponse `json:"job,omitempty"`
}

func NewMatchResponse(r matching.MatchResult) MatchResponse {
	out := MatchResponse{MatchResult: r}
	if r.Job != nil {
		j := NewJobResponse(*r.Job)
		out.Job = &j
	}
	return out
}

func NewMatchResponses(items []matching.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewMatchResponse(r))
	}
	return out
}
