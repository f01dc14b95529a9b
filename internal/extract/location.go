package extract

import (
	"regexp"
	"strings"
)

// Locale lists for the US-location filter. A posting whose location mentions
// an excluded locale is dropped; one mentioning an allowed locale or a US
// state/city is kept; an unrecognized location is kept (benefit of the doubt
// for "Remote" boards that leave the field vague).

var allowLocales = newLocaleSet(
	"remote", "united states", "us", "usa", "americas", "silicon valley",
	"san francisco", "bay area", "new york city", "nyc", "los angeles",
)

var statesAndCities = newLocaleSet(
	"ak", "al", "alabama", "alaska", "ann arbor", "atlanta", "austin",
	"boston", "boulder", "ca", "california", "charlotte", "chicago",
	"cleveland", "co", "colorado", "columbus", "connecticut", "ct", "dallas",
	"dc", "de", "delaware", "denver", "detroit", "durham", "fl", "florida",
	"ga", "georgia", "houston", "ia", "il", "illinois", "in", "indiana",
	"indianapolis", "iowa", "kansas", "kentucky", "ks", "ky", "la",
	"las vegas", "louisiana", "ma", "madison", "maine", "maryland",
	"massachusetts", "md", "me", "mi", "michigan", "milwaukee",
	"minneapolis", "minnesota", "mississippi", "missouri", "mn", "mo",
	"montana", "ms", "mt", "nashville", "nc", "ne", "nebraska", "nevada",
	"new hampshire", "new jersey", "new mexico", "new york", "nh", "nj",
	"nm", "north carolina", "nv", "ny", "oh", "ohio", "ok", "oklahoma",
	"or", "oregon", "pa", "pennsylvania", "philadelphia", "phoenix",
	"pittsburgh", "portland", "raleigh", "rhode island", "ri",
	"salt lake city", "san diego", "sc", "seattle", "south carolina",
	"tennessee", "texas", "tn", "tx", "ut", "utah", "va", "vermont",
	"virginia", "vt", "wa", "washington", "west virginia", "wi",
	"wisconsin", "wv", "wy", "wyoming",
)

var excludeLocales = newLocaleSet(
	"canada", "latam", "europe", "emea", "apac", "mexico", "germany",
	"uk", "united kingdom", "london", "argentina", "brazil", "ireland",
	"spain", "italy", "poland", "czech republic", "bulgaria", "netherlands",
	"slovakia", "hungary", "morocco", "india", "warsaw", "paris", "chile",
	"colombia", "france", "sweden", "lisbon", "portugal", "singapore",
)

var localeSplitter = regexp.MustCompile(`[,/\-()|]| `)

// InUSA reports whether a location string plausibly refers to a US location.
// Excluded locales win over allowed ones; no match at all defaults to true.
func InUSA(location string) bool {
	parts := localeSplitter.Split(strings.ToLower(location), -1)

	for _, p := range parts {
		if excludeLocales[strings.TrimSpace(p)] {
			return false
		}
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if allowLocales[p] || statesAndCities[p] {
			return true
		}
	}

	// Multi-word locales ("united kingdom", "czech republic") are split apart
	// above, so also check the whole string. Only multi-word locales here:
	// substring-matching short codes like "uk" would fire inside unrelated
	// words ("Dukes Landing").
	whole := strings.TrimSpace(strings.ToLower(location))
	for locale := range excludeLocales {
		if strings.Contains(locale, " ") && strings.Contains(whole, locale) {
			return false
		}
	}
	return true
}

func newLocaleSet(locales ...string) map[string]bool {
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[l] = true
	}
	return set
}
