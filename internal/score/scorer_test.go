package score

import (
	"reflect"
	"testing"

	"github.com/dmerrick/jobscout/internal/model"
)

func testModel() model.PreferenceModel {
	return model.PreferenceModel{Rules: []model.PreferenceRule{
		{Tag: "Remote", Keywords: []string{"remote"}, Weight: 10},
		{Tag: "Python", Keywords: []string{"python"}, Weight: 10},
		{Tag: "Go", Keywords: []string{"golang", "go"}, Weight: 6},
		{Tag: "Java", Keywords: []string{"java"}, Weight: -10},
		{Tag: "On-site", Keywords: []string{"on-site", "onsite"}, Weight: -10},
	}}
}

func TestScore_SumsWeightsAndCollectsTags(t *testing.T) {
	p := model.Posting{
		Title:       "Backend Engineer",
		Description: "Remote role. We use Python and Go on Linux.",
	}

	score, hits := NewScorer().Score(p, testModel())
	if score != 26 {
		t.Errorf("score = %d, want 26", score)
	}
	want := []string{"Remote", "Python", "Go"}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("hits = %v, want %v", hits, want)
	}
}

func TestScore_NegativeWeightsCanGoBelowZero(t *testing.T) {
	p := model.Posting{
		Title:       "Java Engineer",
		Description: "On-site in our Chicago office.",
	}

	score, hits := NewScorer().Score(p, testModel())
	if score != -20 {
		t.Errorf("score = %d, want -20", score)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %v, want 2 entries", hits)
	}
}

func TestScore_WholeWordMatching(t *testing.T) {
	// "java" must not fire on "JavaScript", "go" must not fire on "Google".
	p := model.Posting{
		Title:       "Frontend Engineer",
		Description: "JavaScript and TypeScript at Google scale.",
	}

	score, hits := NewScorer().Score(p, testModel())
	if score != 0 || len(hits) != 0 {
		t.Errorf("score = %d hits = %v, want 0 and none", score, hits)
	}
}

func TestScore_MatchesExtractedKeywords(t *testing.T) {
	p := model.Posting{
		Title:    "Engineer",
		Keywords: []string{"Python"},
	}

	score, hits := NewScorer().Score(p, testModel())
	if score != 10 || len(hits) != 1 || hits[0] != "Python" {
		t.Errorf("score = %d hits = %v, want 10 [Python]", score, hits)
	}
}

func TestScore_RuleCountsOnceDespiteMultipleKeywords(t *testing.T) {
	p := model.Posting{Description: "We write Go. Lots of golang."}

	score, hits := NewScorer().Score(p, testModel())
	if score != 6 {
		t.Errorf("score = %d, want 6 (rule fires once)", score)
	}
	if !reflect.DeepEqual(hits, []string{"Go"}) {
		t.Errorf("hits = %v, want [Go]", hits)
	}
}

func TestScore_EmptyKeywordIsIgnored(t *testing.T) {
	p := model.Posting{Description: "We write Go services."}
	prefs := model.PreferenceModel{Rules: []model.PreferenceRule{
		{Tag: "go", Keywords: []string{"", "Go"}, Weight: 6},
	}}

	score, hits := NewScorer().Score(p, prefs)
	if score != 6 || len(hits) != 1 || hits[0] != "go" {
		t.Errorf("score = %d hits = %v, want 6 [go]", score, hits)
	}
}

func TestScore_Deterministic(t *testing.T) {
	p := model.Posting{
		Title:       "Senior Backend Engineer",
		Description: "Remote. Python, Go, and a little Java.",
	}
	prefs := testModel()
	s := NewScorer()

	firstScore, firstHits := s.Score(p, prefs)
	for i := 0; i < 10; i++ {
		score, hits := s.Score(p, prefs)
		if score != firstScore || !reflect.DeepEqual(hits, firstHits) {
			t.Fatalf("run %d: (%d, %v) != (%d, %v)", i, score, hits, firstScore, firstHits)
		}
	}
}
