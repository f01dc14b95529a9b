package extract

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultVocabulary is the fixed term list Keywords matches against:
// technology names plus seniority and work-mode terms. Config may extend it.
var DefaultVocabulary = []string{
	"Python", "Go", "Golang", "Rust", "Java", "JavaScript", "TypeScript",
	"C++", "Ruby", "Scala", "Kotlin", "Swift", "Haskell",
	"Kubernetes", "Docker", "Terraform", "AWS", "GCP", "Azure",
	"Linux", "PostgreSQL", "MySQL", "Redis", "Kafka", "gRPC",
	"React", "Node.js", "Django", "Machine Learning", "Distributed Systems",
	"Backend", "Frontend", "Full Stack", "DevOps", "SRE", "Infrastructure",
	"Intern", "Junior", "Senior", "Staff", "Principal", "Lead", "Manager",
	"Remote", "Hybrid", "On-site",
}

type vocabMatcher struct {
	term    string
	pattern *regexp.Regexp
}

var (
	compileOnce     sync.Once
	defaultMatchers []vocabMatcher
)

// Keywords returns the vocabulary terms present in text, matched
// case-insensitively on word boundaries, deduplicated and sorted.
func Keywords(text string) []string {
	compileOnce.Do(func() {
		defaultMatchers = compileVocabulary(DefaultVocabulary)
	})
	return matchVocabulary(text, defaultMatchers)
}

// KeywordsIn matches text against a caller-supplied vocabulary. Used when
// config extends the default term list.
func KeywordsIn(text string, vocabulary []string) []string {
	return matchVocabulary(text, compileVocabulary(vocabulary))
}

func compileVocabulary(terms []string) []vocabMatcher {
	matchers := make([]vocabMatcher, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		matchers = append(matchers, vocabMatcher{term: term, pattern: wordPattern(term)})
	}
	return matchers
}

func matchVocabulary(text string, matchers []vocabMatcher) []string {
	var hits []string
	seen := make(map[string]bool)
	for _, m := range matchers {
		key := strings.ToLower(m.term)
		if seen[key] {
			continue
		}
		if m.pattern.MatchString(text) {
			seen[key] = true
			hits = append(hits, m.term)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return strings.ToLower(hits[i]) < strings.ToLower(hits[j])
	})
	return hits
}

// wordPattern builds a case-insensitive whole-word pattern for a term.
// Word boundaries are only anchored next to word characters, so terms like
// "C++" and "Node.js" still compile to something sensible.
func wordPattern(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(term)
	if isWordChar(term[0]) {
		quoted = `\b` + quoted
	}
	if isWordChar(term[len(term)-1]) {
		quoted += `\b`
	}
	return regexp.MustCompile(`(?i)` + quoted)
}

func isWordChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
