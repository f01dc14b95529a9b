package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Ensure SlackReporter implements Reporter.
var _ Reporter = (*SlackReporter)(nil)

// SlackReporter posts the run summary to a Slack channel via an Incoming
// Webhook.
type SlackReporter struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewSlackReporter(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackReporter {
	return &SlackReporter{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Report sends one message with per-source lines and the run totals.
func (r *SlackReporter) Report(s *Summary) error {
	body := fmt.Sprintf("*New:* %d   *Merged:* %d   *Retained:* %d   *Ratings refreshed:* %d\n",
		s.New, s.Merged, s.Retained, s.RatingsRefreshed)
	for _, name := range s.SourceNames() {
		st := s.PerSource[name]
		body += fmt.Sprintf("• %s: %d fetched, %d failed of %d candidates\n",
			name, st.Fetched, st.Failed, st.Candidates)
	}

	payload := slackPayload{Blocks: []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: "jobscout run complete"}},
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: body}},
	}}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := r.httpClient.Post(r.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	r.logger.Info("slack summary sent")
	return nil
}
