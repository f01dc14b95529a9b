package extract

import (
	"reflect"
	"testing"
)

func TestKeywords_MatchesVocabulary(t *testing.T) {
	text := "We are a PYTHON shop running on Linux and kubernetes. Senior engineers welcome."
	got := Keywords(text)
	want := []string{"Kubernetes", "Linux", "Python", "Senior"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_WholeWordOnly(t *testing.T) {
	// "Java" must not match inside "JavaScript".
	got := Keywords("Experience with JavaScript frameworks required.")
	for _, kw := range got {
		if kw == "Java" {
			t.Errorf("Keywords matched Java inside JavaScript: %v", got)
		}
	}
	if len(got) != 1 || got[0] != "JavaScript" {
		t.Errorf("Keywords() = %v, want [JavaScript]", got)
	}
}

func TestKeywords_PunctuatedTerms(t *testing.T) {
	got := Keywords("Modern C++ and Node.js experience a plus")
	want := []string{"C++", "Node.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_Deterministic(t *testing.T) {
	text := "Go, Python, Rust, and more Go"
	first := Keywords(text)
	second := Keywords(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Keywords not deterministic: %v vs %v", first, second)
	}
}

func TestKeywordsIn_EmptyTermIsIgnored(t *testing.T) {
	got := KeywordsIn("We run Elixir in production.", []string{"", "Elixir"})
	want := []string{"Elixir"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeywordsIn() = %v, want %v", got, want)
	}
}

func TestParseCompanySize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1 to 50 Employees", "1-50"},
		{"51 to 200 Employees", "51-200"},
		{"201 to 500 Employees", "201-500"},
		{"501 to 1K Employees", "501-1000"},
		{"1K to 5K Employees", "1000-5000"},
		{"5K to 10K Employees", "5000-10000"},
		{"10K+ Employees", "10000+"},
		{"Unknown", ""},
	}
	for _, tt := range tests {
		if got := ParseCompanySize(tt.raw); got != tt.want {
			t.Errorf("ParseCompanySize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{
			"https://jobs.lever.co/acme/123?lever-origin=applied&ref=x",
			"https://jobs.lever.co/acme/123",
		},
		{
			"https://boards.greenhouse.io/acme/jobs/42#app",
			"https://boards.greenhouse.io/acme/jobs/42",
		},
		{
			"https://example.com/path",
			"https://example.com/path",
		},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.raw); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestInUSA(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"Remote", true},
		{"San Francisco, CA", true},
		{"New York, NY", true},
		{"Austin, TX or Remote", true},
		{"London, UK", false},
		{"Toronto, Canada", false},
		{"Remote - Europe", false},
		{"Warsaw", false},
		{"United Kingdom", false},      // multi-word locale via whole-string check
		{"Dukes Landing", true},        // "uk" must not match inside words
		{"Bukarest Business Park", true},
		{"", true}, // vague locations get the benefit of the doubt
	}
	for _, tt := range tests {
		if got := InUSA(tt.location); got != tt.want {
			t.Errorf("InUSA(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	in := "  Hello World \n\n\n  second line  \n"
	want := "Hello World\nsecond line"
	if got := CleanText(in); got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}
