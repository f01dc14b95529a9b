package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizeTokenPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([Kk])?(\+)?`)

// ParseCompanySize normalizes an employee-count label from a rating source
// into a stable range string: "1 to 50 Employees" -> "1-50",
// "501 to 1K Employees" -> "501-1000", "10K+ Employees" -> "10000+".
// Returns "" when no count can be read.
func ParseCompanySize(raw string) string {
	matches := sizeTokenPattern.FindAllStringSubmatch(raw, 2)
	if len(matches) == 0 {
		return ""
	}

	first, plus := sizeValue(matches[0])
	if len(matches) >= 2 && strings.Contains(raw, "to") {
		second, _ := sizeValue(matches[1])
		return fmt.Sprintf("%d-%d", first, second)
	}
	if plus {
		return fmt.Sprintf("%d+", first)
	}
	return strconv.Itoa(first)
}

func sizeValue(m []string) (value int, plus bool) {
	v, _ := strconv.ParseFloat(m[1], 64)
	if m[2] != "" {
		v *= 1000
	}
	return int(v), m[3] != ""
}
