package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches one currency amount: "$90,000", "$ 120000", "$75k",
// "$85.5k". The optional k suffix multiplies by 1000.
var amountPattern = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s?([kK])?\b`)

// maxRangeGap is the largest number of characters allowed between two
// amounts for them to be read as a min–max range. Covers "-", "–", "—",
// " to ", and " USD and " style separators without pairing amounts from
// unrelated sentences.
const maxRangeGap = 20

// Salary scans free text for a compensation range. Two nearby amounts are
// read as (min, max); a lone amount sets both bounds to it; text with no
// recognizable amount yields (nil, nil). Malformed input never panics.
func Salary(text string) (min, max *int) {
	matches := amountPattern.FindAllStringSubmatchIndex(text, 3)
	if len(matches) == 0 {
		return nil, nil
	}

	first, ok := parseAmount(text, matches[0])
	if !ok {
		return nil, nil
	}

	if len(matches) > 1 {
		gap := matches[1][0] - matches[0][1]
		if gap >= 0 && gap <= maxRangeGap {
			if second, ok := parseAmount(text, matches[1]); ok {
				return &first, &second
			}
		}
	}

	// Single bound: both min and max collapse to it.
	v := first
	return &v, &v
}

// parseAmount converts one amountPattern match into an integer dollar value.
func parseAmount(text string, m []int) (int, bool) {
	digits := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	if m[4] != -1 { // k suffix
		v *= 1000
	}
	return int(v), true
}
