package dto

import (
	"jobmatch/internal/search"
	"jobmatch/internal/usecase"
)

type SearchResponse struct {
	Items           []JobResponse   `json:"items"`
	Total           int             `json:"total"`
	Pages           int             `json:"pages"`
	Page            int             `json:"page"`
	Limit           int             `json:"limit"`
	Facets          search.Facets   `json:"facets"`
	Recommendations []MatchResponse `json:"recommendations"`
}

func NewSearchResponse(res usecase.SearchResponse) SearchResponse {
	items := make([]JobResponse, 0, len(res.Items))
	for _, it := range res.Items {
		j := NewJobResponse(it.Job)
		j.MatchScore = it.MatchScore
		items = append(items, j)
	}
	return SearchResponse{
		Items:           items,
		Total:           res.Total,
		Pages:           res.Pages,
		Page:            res.Page,
		Limit:           res.Limit,
		Facets:          res.Facets,
		Recommendations: NewMatchResponses(res.Recommendations),
	}
}
