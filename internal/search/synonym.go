package search

var Synonyms = map[string][]string{
	"frontend":         {"front end", "frontend developer", "ui engineer"},
	"backend":          {"back end", "server side", "backend engineer"},
	"fullstack":        {"full stack", "full-stack"},
	"devops":           {"site reliability", "sre", "platform engineer"},
	"golang":           {"go developer", "go engineer"},
	"js":               {"javascript"},
	"ts":               {"typescript"},
	"ml":               {"machine learning"},
	"machine learning": {"ml engineer", "data scientist"},
	"qa":               {"quality assurance", "test engineer"},
	"pm":               {"product manager"},
	"designer":         {"ui designer", "ux designer", "product designer"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
