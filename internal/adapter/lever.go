package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmerrick/jobscout/internal/extract"
	"github.com/dmerrick/jobscout/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

type leverCategories struct {
	Location     string   `json:"location"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single job in the Lever postings API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	Description      string          `json:"description"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Categories       leverCategories `json:"categories"`
	ClosesAt         int64           `json:"closesAt"`
	HostedURL        string          `json:"hostedUrl"`
}

// LeverAdapter fetches postings from the Lever public postings API.
type LeverAdapter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewLeverAdapter creates an adapter for Lever boards.
func NewLeverAdapter(client *http.Client, logger *slog.Logger) *LeverAdapter {
	return &LeverAdapter{
		baseURL: leverBaseURL,
		client:  client,
		logger:  logger,
	}
}

func (a *LeverAdapter) Source() string { return "lever" }

// Fetch retrieves the candidate's postings and normalizes them. Lever ships
// descriptions as HTML; DescriptionPlain is preferred when present.
func (a *LeverAdapter) Fetch(ctx context.Context, c model.SourceCandidate) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s?mode=json", a.baseURL, c.Slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", c.Slug, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{Source: "lever", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.FetchError{
			Source:     "lever",
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("board %s: unexpected status", c.Slug),
		}
	}

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, &model.FetchError{
			Source: "lever",
			Err:    fmt.Errorf("board %s: decoding response: %w", c.Slug, err),
		}
	}

	postings := make([]model.Posting, 0, len(leverJobs))
	for _, lj := range leverJobs {
		if lj.Text == "" {
			a.logger.Warn("skipping malformed posting",
				"error", &model.ParseError{Source: "lever", Detail: fmt.Sprintf("posting %s has no title", lj.ID)},
			)
			continue
		}

		description := extract.CleanText(lj.DescriptionPlain)
		if description == "" {
			description = stripHTML(lj.Description)
		}

		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		var deadline *time.Time
		if lj.ClosesAt > 0 {
			t := time.UnixMilli(lj.ClosesAt)
			deadline = &t
		}

		postings = append(postings, model.Posting{
			Employer:    c.Employer,
			Title:       lj.Text,
			Description: description,
			Location:    location,
			URL:         extract.NormalizeURL(lj.HostedURL),
			Deadline:    deadline,
			Source:      "lever",
		})
	}

	return postings, nil
}
