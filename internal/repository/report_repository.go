package repository

import (
	"database/sql"

	"github.com/pji114/jusik/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *ReportRepository) EnsureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS report_file (
			id          BIGSERIAL PRIMARY KEY,
			direction   TEXT NOT NULL,
			style       TEXT NOT NULL,
			ai_used     BOOLEAN NOT NULL,
			stock_count INT NOT NULL,
			path        TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *ReportRepository) Save(file *model.ReportFile) error {
	return r.db.QueryRow(`
		INSERT INTO report_file(direction, style, ai_used, stock_count, path)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, file.Direction, file.Style, file.AIUsed, file.StockCount, file.Path).Scan(&file.ID, &file.CreatedAt)
}

func (r *ReportRepository) GetRecent(limit int) ([]model.ReportFile, error) {
	rows, err := r.db.Query(`
		SELECT id, direction, style, ai_used, stock_count, path, created_at
		FROM report_file
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.ReportFile
	for rows.Next() {
		var f model.ReportFile
		err := rows.Scan(&f.ID, &f.Direction, &f.Style, &f.AIUsed, &f.StockCount, &f.Path, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}
