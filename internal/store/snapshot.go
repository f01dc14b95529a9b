package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmerrick/jobscout/internal/model"
)

const (
	postingsFile = "postings.csv"
	ratingsFile  = "ratings.csv"

	timeLayout = "2006-01-02 15:04:05"
	listSep    = "; "
)

var postingsHeader = []string{
	"employer", "title", "source", "first_seen", "location", "url",
	"deadline", "salary_min", "salary_max", "score", "preference_hits",
	"keywords", "description",
}

var ratingsHeader = []string{
	"employer", "rating", "review_count", "company_size", "profile_url",
}

// FileStore owns the persisted snapshot: one CSV table of postings and one
// of employer ratings under a single directory. The tables are plain text so
// rating rows can be contributed by hand without running the pipeline.
// Not safe for concurrent writers; runs are serialized by the pipeline lock.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// LoadPostings reads the prior posting snapshot. A missing file is an empty
// snapshot, not an error (first run).
func (s *FileStore) LoadPostings() ([]model.Posting, error) {
	rows, err := s.readTable(postingsFile)
	if err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(rows))
	for _, row := range rows {
		row = padRow(row, len(postingsHeader))
		p := model.Posting{
			Employer:       row[0],
			Title:          row[1],
			Source:         row[2],
			Location:       row[4],
			URL:            row[5],
			Score:          parseInt(row[9]),
			PreferenceHits: splitList(row[10]),
			Keywords:       splitList(row[11]),
			Description:    row[12],
		}
		if t, err := time.Parse(timeLayout, row[3]); err == nil {
			p.FirstSeen = t
		} else {
			// Hand-added row without a parseable date: stamp it now rather
			// than carrying the zero time forward as its immutable origin.
			p.FirstSeen = time.Now()
		}
		if t, err := time.Parse(timeLayout, row[6]); err == nil {
			p.Deadline = &t
		}
		p.SalaryMin = parseNullableInt(row[7])
		p.SalaryMax = parseNullableInt(row[8])
		postings = append(postings, p)
	}
	return postings, nil
}

// LoadRatings reads the employer-rating table, tolerating hand-appended rows
// with missing trailing columns.
func (s *FileStore) LoadRatings() ([]model.EmployerRating, error) {
	rows, err := s.readTable(ratingsFile)
	if err != nil {
		return nil, err
	}

	ratings := make([]model.EmployerRating, 0, len(rows))
	for _, row := range rows {
		row = padRow(row, len(ratingsHeader))
		if strings.TrimSpace(row[0]) == "" {
			continue
		}
		ratings = append(ratings, model.EmployerRating{
			Employer:    row[0],
			Rating:      row[1],
			ReviewCount: row[2],
			CompanySize: row[3],
			ProfileURL:  row[4],
		})
	}
	return ratings, nil
}

// Save writes both tables. Each table goes through a temp file and an atomic
// rename, so a crash mid-write leaves the prior snapshot readable.
func (s *FileStore) Save(postings []model.Posting, ratings []model.EmployerRating) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	if err := s.writeTableAtomic(postingsFile, postingsHeader, postingRows(postings)); err != nil {
		return fmt.Errorf("writing postings table: %w", err)
	}
	if err := s.writeTableAtomic(ratingsFile, ratingsHeader, ratingRows(ratings)); err != nil {
		return fmt.Errorf("writing ratings table: %w", err)
	}
	return nil
}

func postingRows(postings []model.Posting) [][]string {
	rows := make([][]string, 0, len(postings))
	for _, p := range postings {
		deadline := ""
		if p.Deadline != nil {
			deadline = p.Deadline.Format(timeLayout)
		}
		rows = append(rows, []string{
			p.Employer,
			p.Title,
			p.Source,
			p.FirstSeen.Format(timeLayout),
			p.Location,
			p.URL,
			deadline,
			formatNullableInt(p.SalaryMin),
			formatNullableInt(p.SalaryMax),
			strconv.Itoa(p.Score),
			strings.Join(p.PreferenceHits, listSep),
			strings.Join(p.Keywords, listSep),
			p.Description,
		})
	}
	return rows
}

func ratingRows(ratings []model.EmployerRating) [][]string {
	rows := make([][]string, 0, len(ratings))
	for _, r := range ratings {
		rows = append(rows, []string{
			r.Employer, r.Rating, r.ReviewCount, r.CompanySize, r.ProfileURL,
		})
	}
	return rows
}

func (s *FileStore) readTable(name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate hand-edited rows

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}
	_ = header

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeTableAtomic writes header+rows to a temp file in the snapshot
// directory, then renames it over the target. Rename within one directory is
// atomic, so readers see either the old table or the new one, never a
// partial file.
func (s *FileStore) writeTableAtomic(name string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func parseNullableInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func formatNullableInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
