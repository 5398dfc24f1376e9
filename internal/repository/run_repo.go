package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/savia/posaudit/internal/domain"
)

type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// RunFilter narrows and pages the run listing.
type RunFilter struct {
	ClosureID string
	Certified *bool
	Page      int
	Limit     int
}

// InsertRun stores one finished run together with all of its findings in a
// single transaction. The report argument is the encoded shareable payload.
func (r *RunRepo) InsertRun(run *domain.AuditRun, findings []domain.Finding, report string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	certified := 0
	if run.Certified {
		certified = 1
	}
	_, err = tx.Exec(
		`INSERT INTO audit_runs
		(id, closure_id, certified, total_files, errors, warnings, report, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.ClosureID, certified, run.TotalFiles, run.Errors, run.Warnings,
		report, run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO findings (run_id, position, status, message, details)
		VALUES (?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, f := range findings {
		details, err := json.Marshal(f.Details)
		if err != nil {
			return fmt.Errorf("marshal details %d: %w", i, err)
		}
		if _, err := stmt.Exec(run.ID, i, string(f.Status), f.Message, string(details)); err != nil {
			return fmt.Errorf("insert finding %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// List returns runs newest first, with the total count for paging.
func (r *RunRepo) List(filter RunFilter) ([]domain.AuditRun, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if filter.ClosureID != "" {
		where += " AND closure_id = ?"
		args = append(args, filter.ClosureID)
	}
	if filter.Certified != nil {
		where += " AND certified = ?"
		if *filter.Certified {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audit_runs "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	offset := (filter.Page - 1) * filter.Limit

	rows, err := r.db.Query(
		`SELECT id, closure_id, certified, total_files, errors, warnings, created_at
		FROM audit_runs `+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, filter.Limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var runs []domain.AuditRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

// GetByID returns one run, or sql.ErrNoRows when absent.
func (r *RunRepo) GetByID(id string) (*domain.AuditRun, error) {
	row := r.db.QueryRow(
		`SELECT id, closure_id, certified, total_files, errors, warnings, created_at
		FROM audit_runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetReport returns the encoded shareable payload of one run.
func (r *RunRepo) GetReport(id string) (string, error) {
	var report string
	err := r.db.QueryRow(`SELECT report FROM audit_runs WHERE id = ?`, id).Scan(&report)
	return report, err
}

// GetFindings returns a run's findings in their original order.
func (r *RunRepo) GetFindings(runID string) ([]domain.Finding, error) {
	rows, err := r.db.Query(
		`SELECT status, message, details FROM findings
		WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var findings []domain.Finding
	for rows.Next() {
		var status, message, details string
		if err := rows.Scan(&status, &message, &details); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		f := domain.Finding{Status: domain.Status(status), Message: message}
		if err := json.Unmarshal([]byte(details), &f.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// Stats summarises the run history for the dashboard endpoint.
type Stats struct {
	TotalRuns     int `json:"total_runs"`
	CertifiedRuns int `json:"certified_runs"`
	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
}

func (r *RunRepo) GetStats() (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(certified), 0),
			COALESCE(SUM(errors), 0),
			COALESCE(SUM(warnings), 0)
		FROM audit_runs`,
	).Scan(&s.TotalRuns, &s.CertifiedRuns, &s.TotalErrors, &s.TotalWarnings)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (domain.AuditRun, error) {
	var run domain.AuditRun
	var certified int
	var createdAt string
	if err := row.Scan(&run.ID, &run.ClosureID, &certified, &run.TotalFiles,
		&run.Errors, &run.Warnings, &createdAt); err != nil {
		return run, err
	}
	run.Certified = certified == 1
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return run, nil
}
