package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/studyhub/internal/record"
)

// Catalog

// ReplaceRecords swaps the stored catalog for records in one transaction
// and logs the import. Order is preserved through the position column.
func (db *DB) ReplaceRecords(ctx context.Context, records []record.Record, source string) (*ImportRun, error) {
	run := &ImportRun{
		ID:          uuid.New().String(),
		RecordCount: len(records),
		ImportedAt:  time.Now(),
	}
	if source != "" {
		run.Source = &source
	}

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_imports (id, source, record_count, imported_at)
			VALUES (?, ?, ?, ?)
		`, run.ID, NullString(run.Source), run.RecordCount, run.ImportedAt); err != nil {
			return fmt.Errorf("failed to log import: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO records (id, position, fields, import_id, created_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode record %s: %w", r.ID(), err)
			}
			if _, err := stmt.ExecContext(ctx, r.ID(), i, string(data), run.ID, run.ImportedAt); err != nil {
				return fmt.Errorf("failed to insert record %s: %w", r.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRecords returns the stored catalog in import order
func (db *DB) ListRecords(ctx context.Context) ([]record.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT fields FROM records ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r record.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("failed to decode stored record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetRecord retrieves a record by ID. Returns nil if not found.
func (db *DB) GetRecord(ctx context.Context, id string) (*record.Record, error) {
	var data string
	err := db.QueryRowContext(ctx, `SELECT fields FROM records WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r record.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode stored record: %w", err)
	}
	return &r, nil
}

// CountRecords returns the number of stored records
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// LastImport returns the most recent import. Returns nil if none.
func (db *DB) LastImport(ctx context.Context) (*ImportRun, error) {
	run := &ImportRun{}
	var source sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, source, record_count, imported_at
		FROM catalog_imports ORDER BY imported_at DESC LIMIT 1
	`).Scan(&run.ID, &source, &run.RecordCount, &run.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.Source = StringPtr(source)
	return run, nil
}

// Search history

// RecordSearch inserts a search history entry
func (db *DB) RecordSearch(ctx context.Context, s *SearchEntry) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	profile, err := s.profileJSON()
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO search_history (
			id, source, query_text, category, bucket, profile,
			result_count, matched, fallback_applied, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.Source, s.Text, s.Category, s.Bucket, profile,
		s.ResultCount, s.Matched, s.FallbackApplied, s.CreatedAt,
	)
	return err
}

// ListSearches retrieves search history, newest first
func (db *DB) ListSearches(ctx context.Context, opts SearchListOptions) ([]SearchEntry, error) {
	query := `
		SELECT id, source, query_text, category, bucket, profile,
		       result_count, matched, fallback_applied, created_at
		FROM search_history WHERE 1=1
	`
	args := []interface{}{}

	if opts.Source != nil {
		query += " AND source = ?"
		args = append(args, *opts.Source)
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		s := SearchEntry{}
		var profile sql.NullString

		if err := rows.Scan(
			&s.ID, &s.Source, &s.Text, &s.Category, &s.Bucket, &profile,
			&s.ResultCount, &s.Matched, &s.FallbackApplied, &s.CreatedAt,
		); err != nil {
			return nil, err
		}

		if profile.Valid {
			if err := json.Unmarshal([]byte(profile.String), &s.Profile); err != nil {
				return nil, fmt.Errorf("failed to decode profile of search %s: %w", s.ID, err)
			}
		}
		entries = append(entries, s)
	}

	return entries, rows.Err()
}

// Statistics

// GetStats returns aggregate statistics
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&stats.Records); err != nil {
		return nil, err
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_imports`).Scan(&stats.Imports); err != nil {
		return nil, err
	}

	last, err := db.LastImport(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		stats.LastImportAt = &last.ImportedAt
	}

	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(fallback_applied), 0),
		       COALESCE(AVG(matched), 0)
		FROM search_history
	`).Scan(&stats.Searches, &stats.FallbackSearches, &stats.AvgMatched)
	if err != nil {
		return nil, err
	}

	stats.TopCategories, err = db.topValues(ctx, "category", 5)
	if err != nil {
		return nil, err
	}
	stats.TopBuckets, err = db.topValues(ctx, "bucket", 5)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// topValues counts the most used non-empty values of a search_history column
func (db *DB) topValues(ctx context.Context, column string, limit int) ([]Count, error) {
	switch column {
	case "category", "bucket":
	default:
		return nil, fmt.Errorf("unsupported column %q", column)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT LOWER(%[1]s) AS v, COUNT(*) AS n FROM search_history
		WHERE %[1]s != '' AND LOWER(%[1]s) != 'all'
		GROUP BY v ORDER BY n DESC, v LIMIT ?
	`, column), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Value, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
