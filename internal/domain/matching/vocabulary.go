package matching

import (
	"regexp"
	"strings"
)

var Vocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Golang", "Rust", "C++", "C#", "Ruby", "PHP",
	"Kotlin", "Swift", "Scala", "Elixir", "SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
	"Kafka", "RabbitMQ", "GraphQL", "Redux", "gRPC", "Docker", "Kubernetes", "Terraform", "Ansible", "AWS",
	"GCP", "Azure", "Linux", "Git", "CI/CD", "Jenkins", "React", "Vue", "Angular", "Next.js",
	"Node.js", "Django", "Flask", "FastAPI", "Spring Boot", "Laravel", "Ruby on Rails", "HTML", "CSS", "Tailwind",
	"Figma", "Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Pandas", "Spark", "Airflow", "Tableau", "Power BI",
	"Scrum", "Agile", "Microservices", "Android", "iOS",
}

type vocabEntry struct {
	name string
	re   *regexp.Regexp
}

var vocabPatterns = compileVocabulary(Vocabulary)

func compileVocabulary(words []string) []vocabEntry {
	out := make([]vocabEntry, 0, len(words))
	for _, w := range words {
		lw := strings.ToLower(strings.TrimSpace(w))
		if lw == "" {
			continue
		}
		pat := `(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(lw) + `([^a-z0-9]|$)`
		out = append(out, vocabEntry{name: w, re: regexp.MustCompile(pat)})
	}
	return out
}

// DetectSkills returns vocabulary skills mentioned in text, in vocabulary order.
func DetectSkills(texts ...string) []string {
	joined := strings.ToLower(strings.Join(texts, "\n"))
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	out := make([]string, 0)
	for _, e := range vocabPatterns {
		if e.re.MatchString(joined) {
			out = append(out, e.name)
		}
	}
	return out
}

// MergeSkills unions skill lists case-insensitively, keeping first spelling.
func MergeSkills(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	all := make([]string, 0, total)
	for _, l := range lists {
		all = append(all, l...)
	}
	return cleanSkills(all)
}
