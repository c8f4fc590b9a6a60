package usage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS llm_usage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	interview_id INTEGER NOT NULL,
	agent_name TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens INTEGER NOT NULL,
	estimated_cost REAL NOT NULL,
	cached INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_llm_usage_interview ON llm_usage(interview_id);
CREATE INDEX IF NOT EXISTS idx_llm_usage_agent ON llm_usage(agent_name);
`

// SQLiteStore implements Store with a SQLite database. This is the
// default backend and the one tests run against (":memory:").
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) a SQLite usage store at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}

	// One connection only: sqlite serializes writers anyway, and a pool
	// of connections against ":memory:" would each see a different database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

type sqliteSession struct {
	tx *sql.Tx
}

// Begin opens a transactional session for one accounting write.
func (s *SQLiteStore) Begin(ctx context.Context) (Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin usage tx: %w", err)
	}
	return &sqliteSession{tx: tx}, nil
}

func (s *sqliteSession) Append(ctx context.Context, rec Record) error {
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO llm_usage (interview_id, agent_name, model, prompt_tokens, completion_tokens, total_tokens, estimated_cost, cached, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.InterviewID, rec.AgentName, rec.Model, rec.PromptTokens, rec.CompletionTokens,
		rec.TotalTokens, rec.EstimatedCost, rec.Cached, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append usage: %w", err)
	}
	return nil
}

func (s *sqliteSession) Commit() error {
	return s.tx.Commit()
}

func (s *sqliteSession) Rollback() error {
	return s.tx.Rollback()
}

// ByInterview returns all usage rows for one interview, newest first.
func (s *SQLiteStore) ByInterview(ctx context.Context, interviewID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, interview_id, agent_name, model, prompt_tokens, completion_tokens, total_tokens, estimated_cost, cached, created_at
		 FROM llm_usage WHERE interview_id = ? ORDER BY created_at DESC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Summary aggregates usage grouped by agent and model.
func (s *SQLiteStore) Summary(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent_name, model, COUNT(*), SUM(cached), SUM(prompt_tokens), SUM(completion_tokens), SUM(total_tokens), SUM(estimated_cost)
		 FROM llm_usage GROUP BY agent_name, model ORDER BY agent_name, model`,
	)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// TotalCost returns the estimated spend across all records.
func (s *SQLiteStore) TotalCost(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(estimated_cost), 0) FROM llm_usage`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total cost: %w", err)
	}
	return total, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.InterviewID, &r.AgentName, &r.Model, &r.PromptTokens,
			&r.CompletionTokens, &r.TotalTokens, &r.EstimatedCost, &r.Cached, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.AgentName, &s.Model, &s.Requests, &s.CachedRequests,
			&s.PromptTokens, &s.CompletionTokens, &s.TotalTokens, &s.EstimatedCost); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
