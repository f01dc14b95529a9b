package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmerrick/jobscout/internal/extract"
	"github.com/dmerrick/jobscout/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse boards API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter fetches postings from the Greenhouse public boards API.
type GreenhouseAdapter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGreenhouseAdapter creates an adapter for Greenhouse boards.
func NewGreenhouseAdapter(client *http.Client, logger *slog.Logger) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		baseURL: greenhouseBaseURL,
		client:  client,
		logger:  logger,
	}
}

func (a *GreenhouseAdapter) Source() string { return "greenhouse" }

// Fetch retrieves the candidate's board and normalizes each job into a
// Posting. Individually malformed jobs are skipped and logged; they never
// fail the batch.
func (a *GreenhouseAdapter) Fetch(ctx context.Context, c model.SourceCandidate) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", a.baseURL, c.Slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", c.Slug, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{Source: "greenhouse", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.FetchError{
			Source:     "greenhouse",
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("board %s: unexpected status", c.Slug),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, &model.FetchError{
			Source: "greenhouse",
			Err:    fmt.Errorf("board %s: decoding response: %w", c.Slug, err),
		}
	}

	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		if gj.Title == "" {
			a.logger.Warn("skipping malformed posting",
				"error", &model.ParseError{Source: "greenhouse", Detail: fmt.Sprintf("job %d has no title", gj.ID)},
			)
			continue
		}

		postings = append(postings, model.Posting{
			Employer:    c.Employer,
			Title:       gj.Title,
			Description: stripHTML(gj.Content),
			Location:    gj.Location.Name,
			URL:         extract.NormalizeURL(gj.AbsoluteURL),
			Source:      "greenhouse",
		})
	}

	return postings, nil
}
