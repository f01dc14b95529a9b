package rating

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dmerrick/jobscout/internal/extract"
	"github.com/dmerrick/jobscout/internal/model"
)

// HTTPLookup scrapes an employer-review site's company search page for the
// first matching company tile. Site structure changes or an empty result set
// surface as ErrRatingNotFound, which callers treat as "absent".
type HTTPLookup struct {
	baseURL string
	client  *http.Client
}

func NewHTTPLookup(baseURL string, client *http.Client) *HTTPLookup {
	return &HTTPLookup{baseURL: baseURL, client: client}
}

// Lookup searches the review site for the employer and extracts its rating,
// review count, company size, and profile URL from the top result.
func (l *HTTPLookup) Lookup(ctx context.Context, employer string) (model.EmployerRating, error) {
	endpoint := fmt.Sprintf("%s/Search/results.htm?keyword=%s", l.baseURL, url.QueryEscape(employer))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.EmployerRating{}, fmt.Errorf("rating lookup for %s: %w", employer, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := l.client.Do(req)
	if err != nil {
		return model.EmployerRating{}, fmt.Errorf("rating lookup for %s: %w", employer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.EmployerRating{}, fmt.Errorf("rating lookup for %s: unexpected status %d", employer, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.EmployerRating{}, fmt.Errorf("rating lookup for %s: parsing page: %w", employer, err)
	}

	tile := doc.Find(".company-tile").First()
	if tile.Length() == 0 {
		return model.EmployerRating{}, model.ErrRatingNotFound
	}

	r := model.EmployerRating{
		Employer:   employer,
		Rating:     strings.TrimSuffix(strings.TrimSpace(tile.Find("strong").First().Text()), " ★"),
		ProfileURL: tile.AttrOr("href", ""),
	}

	tile.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		switch {
		case strings.Contains(text, "Reviews"):
			r.ReviewCount = strings.TrimSpace(s.Prev().Text())
		case strings.Contains(text, "Employees"):
			r.CompanySize = extract.ParseCompanySize(text)
		}
		return true
	})

	if r.Rating == "" && r.ReviewCount == "" && r.CompanySize == "" {
		return model.EmployerRating{}, model.ErrRatingNotFound
	}
	return r, nil
}
