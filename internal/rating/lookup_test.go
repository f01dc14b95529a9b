package rating

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmerrick/jobscout/internal/model"
)

const companyTilePage = `<html><body>
<a class="company-tile" href="https://ratings.example/Overview/acme">
	<strong class="small">4.2 ★</strong>
	<span>1.2K</span><span>Reviews</span>
	<span>501 to 1K Employees</span>
</a>
<a class="company-tile" href="https://ratings.example/Overview/other">
	<strong class="small">2.0 ★</strong>
</a>
</body></html>`

func TestLookup_ParsesFirstTile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "Acme Corp" {
			t.Errorf("keyword = %q", got)
		}
		w.Write([]byte(companyTilePage))
	}))
	defer srv.Close()

	r, err := NewHTTPLookup(srv.URL, srv.Client()).Lookup(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Rating != "4.2" {
		t.Errorf("rating = %q, want 4.2", r.Rating)
	}
	if r.ReviewCount != "1.2K" {
		t.Errorf("review count = %q, want 1.2K", r.ReviewCount)
	}
	if r.CompanySize != "501-1000" {
		t.Errorf("company size = %q, want 501-1000", r.CompanySize)
	}
	if r.ProfileURL != "https://ratings.example/Overview/acme" {
		t.Errorf("profile url = %q", r.ProfileURL)
	}
	if r.Employer != "Acme Corp" {
		t.Errorf("employer = %q", r.Employer)
	}
}

func TestLookup_NoTileMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>No companies matched.</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPLookup(srv.URL, srv.Client()).Lookup(context.Background(), "Nobody Inc")
	if !errors.Is(err, model.ErrRatingNotFound) {
		t.Fatalf("expected ErrRatingNotFound, got %v", err)
	}
}

func TestLookup_EmptyTileMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="company-tile"></div></body></html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPLookup(srv.URL, srv.Client()).Lookup(context.Background(), "Ghost Co")
	if !errors.Is(err, model.ErrRatingNotFound) {
		t.Fatalf("expected ErrRatingNotFound, got %v", err)
	}
}

func TestLookup_ServerErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPLookup(srv.URL, srv.Client()).Lookup(context.Background(), "Acme")
	if err == nil || errors.Is(err, model.ErrRatingNotFound) {
		t.Fatalf("expected a transport error, got %v", err)
	}
}
