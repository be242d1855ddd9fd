package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vijay-prabhu/studyhub/internal/search"
)

// ImportRun describes one catalog import
type ImportRun struct {
	ID          string    `json:"id"`
	Source      *string   `json:"source,omitempty"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

// SearchEntry is one recorded search
type SearchEntry struct {
	ID              string             `json:"id"`
	Source          string             `json:"source"`
	Text            string             `json:"text,omitempty"`
	Category        string             `json:"category,omitempty"`
	Bucket          string             `json:"bucket,omitempty"`
	Profile         map[string]float64 `json:"profile,omitempty"`
	ResultCount     int                `json:"result_count"`
	Matched         int                `json:"matched"`
	FallbackApplied bool               `json:"fallback_applied"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewSearchEntry builds a history entry for a finished search
func NewSearchEntry(source string, q search.Query, res *search.Result) *SearchEntry {
	e := &SearchEntry{
		Source:   source,
		Text:     q.Text,
		Category: q.Category,
		Bucket:   q.Bucket,
	}
	if len(q.Profile) > 0 {
		e.Profile = make(map[string]float64, len(q.Profile))
		for k, v := range q.Profile {
			e.Profile[k] = v
		}
	}
	if res != nil {
		e.ResultCount = len(res.Records)
		e.Matched = res.Matched
		e.FallbackApplied = res.FallbackApplied
	}
	return e
}

// profileJSON encodes the profile, NULL when empty
func (s *SearchEntry) profileJSON() (sql.NullString, error) {
	if len(s.Profile) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(s.Profile)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// Stats represents aggregate statistics
type Stats struct {
	Records          int        `json:"records"`
	Imports          int        `json:"imports"`
	LastImportAt     *time.Time `json:"last_import_at,omitempty"`
	Searches         int        `json:"searches"`
	FallbackSearches int        `json:"fallback_searches"`
	AvgMatched       float64    `json:"avg_matched"`
	TopCategories    []Count    `json:"top_categories,omitempty"`
	TopBuckets       []Count    `json:"top_buckets,omitempty"`
}

// Count is a value with its number of occurrences
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchListOptions contains options for listing search history
type SearchListOptions struct {
	Source *string
	Since  *time.Time
	Limit  int
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
