package score

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dmerrick/jobscout/internal/model"
)

// Scorer evaluates postings against a preference model. It is stateless and
// safe for concurrent use; identical inputs always yield identical results.
type Scorer struct {
	patterns sync.Map // keyword -> *regexp.Regexp
}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score sums the weight of every rule whose keywords appear in the posting's
// title, description, or extracted keyword set, and returns the matched tags
// in model order. Negative rule weights can drive the total below zero.
func (s *Scorer) Score(p model.Posting, prefs model.PreferenceModel) (int, []string) {
	text := p.Title + "\n" + p.Description + "\n" + strings.Join(p.Keywords, " ")

	total := 0
	var hits []string
	for _, rule := range prefs.Rules {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if s.pattern(kw).MatchString(text) {
				total += rule.Weight
				hits = append(hits, rule.Tag)
				break
			}
		}
	}
	return total, hits
}

// pattern returns a cached whole-word, case-insensitive matcher for kw.
// Whole-word so a "Java" rule never fires on "JavaScript". Boundaries are
// only anchored next to word characters, keeping keywords like "C++" legal.
func (s *Scorer) pattern(kw string) *regexp.Regexp {
	if cached, ok := s.patterns.Load(kw); ok {
		return cached.(*regexp.Regexp)
	}
	quoted := regexp.QuoteMeta(kw)
	if isWordChar(kw[0]) {
		quoted = `\b` + quoted
	}
	if isWordChar(kw[len(kw)-1]) {
		quoted += `\b`
	}
	re := regexp.MustCompile(`(?i)` + quoted)
	actual, _ := s.patterns.LoadOrStore(kw, re)
	return actual.(*regexp.Regexp)
}

func isWordChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
