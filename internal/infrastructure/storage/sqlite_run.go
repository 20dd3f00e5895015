package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

type sqliteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRunRepository SQLite asosidagi run tarixi repository
func NewSQLiteRunRepository(dbPath string) (repository.RunRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}

	if err := createRunSchema(db); err != nil {
		return nil, err
	}

	return &sqliteRunRepository{db: db}, nil
}

func createRunSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	product_file TEXT,
	template_file TEXT,
	output_file TEXT,
	product_type TEXT,
	dialect TEXT,
	total INTEGER NOT NULL,
	succeeded INTEGER NOT NULL,
	failures TEXT,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs (started_at);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

// SaveRun run natijasini saqlash
func (s *sqliteRunRepository) SaveRun(ctx context.Context, report entity.RunReport) error {
	failures, err := json.Marshal(report.Failures)
	if err != nil {
		return fmt.Errorf("failed to encode failures: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
(id, product_file, template_file, output_file, product_type, dialect, total, succeeded, failures, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.ProductFile, report.TemplateFile, report.OutputFile,
		report.ProductType, string(report.Dialect), report.Total, report.Succeeded,
		string(failures), report.StartedAt, report.FinishedAt)
	return err
}

// GetRecent so'nggi run larni olish
func (s *sqliteRunRepository) GetRecent(ctx context.Context, limit int) ([]entity.RunReport, error) {
	query := `SELECT id, product_file, template_file, output_file, product_type, dialect, total, succeeded, failures, started_at, finished_at
FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []entity.RunReport
	for rows.Next() {
		var r entity.RunReport
		var dialect, failures string
		var started, finished time.Time
		if err := rows.Scan(&r.ID, &r.ProductFile, &r.TemplateFile, &r.OutputFile,
			&r.ProductType, &dialect, &r.Total, &r.Succeeded, &failures, &started, &finished); err != nil {
			return nil, err
		}
		r.Dialect = entity.Dialect(dialect)
		r.StartedAt = started
		r.FinishedAt = finished
		if failures != "" {
			if err := json.Unmarshal([]byte(failures), &r.Failures); err != nil {
				return nil, fmt.Errorf("failed to decode failures for run %s: %w", r.ID, err)
			}
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Close db ulanishini yopish
func (s *sqliteRunRepository) Close() error {
	return s.db.Close()
}
