package extract

import (
	"net/url"
	"regexp"
	"strings"
)

var multiNewline = regexp.MustCompile(`\n+`)

// CleanText normalizes scraped description text: non-breaking spaces become
// spaces, newline runs collapse to one, and each line is trimmed.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = multiNewline.ReplaceAllString(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// NormalizeURL strips the query string and fragment so tracking parameters
// do not make the same posting URL look different across runs. Unparseable
// input is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
