package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run 一条运行历史记录
type Run struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"sessionId"`
	Pipeline    string    `json:"pipeline"`
	Filename    string    `json:"filename"`
	RowCount    int       `json:"rowCount"`
	SpecJSON    string    `json:"specJson"`
	SummaryJSON string    `json:"summaryJson"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InsertRun 写入一条运行记录
func (s *Store) InsertRun(r *Run) error {
	res, err := s.db.Exec(`
		INSERT INTO runs (session_id, pipeline, filename, row_count, spec_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.Pipeline, r.Filename, r.RowCount, r.SpecJSON, r.SummaryJSON)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}
	r.ID = id
	return nil
}

// ListRuns 按时间倒序返回运行历史
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, pipeline, filename, row_count, spec_json, summary_json, created_at
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var result []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Pipeline, &r.Filename,
			&r.RowCount, &r.SpecJSON, &r.SummaryJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// GetRun 按 ID 获取单条运行记录
func (s *Store) GetRun(id int64) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`
		SELECT id, session_id, pipeline, filename, row_count, spec_json, summary_json, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.SessionID, &r.Pipeline, &r.Filename,
		&r.RowCount, &r.SpecJSON, &r.SummaryJSON, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return &r, nil
}

// CountRuns 运行记录总数
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}
