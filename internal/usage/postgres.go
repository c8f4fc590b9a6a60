package usage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS llm_usage (
	id BIGSERIAL PRIMARY KEY,
	interview_id BIGINT NOT NULL,
	agent_name TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens INTEGER NOT NULL,
	estimated_cost DOUBLE PRECISION NOT NULL,
	cached BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_llm_usage_interview ON llm_usage(interview_id);
CREATE INDEX IF NOT EXISTS idx_llm_usage_agent ON llm_usage(agent_name);
`

// PostgresStore implements Store on PostgreSQL, the production backend
// of the interview platform.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres opens (and migrates) a Postgres usage store.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping usage db: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

type postgresSession struct {
	tx *sql.Tx
}

// Begin opens a transactional session for one accounting write.
func (s *PostgresStore) Begin(ctx context.Context) (Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin usage tx: %w", err)
	}
	return &postgresSession{tx: tx}, nil
}

func (s *postgresSession) Append(ctx context.Context, rec Record) error {
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO llm_usage (interview_id, agent_name, model, prompt_tokens, completion_tokens, total_tokens, estimated_cost, cached, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.InterviewID, rec.AgentName, rec.Model, rec.PromptTokens, rec.CompletionTokens,
		rec.TotalTokens, rec.EstimatedCost, rec.Cached, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append usage: %w", err)
	}
	return nil
}

func (s *postgresSession) Commit() error {
	return s.tx.Commit()
}

func (s *postgresSession) Rollback() error {
	return s.tx.Rollback()
}

// ByInterview returns all usage rows for one interview, newest first.
func (s *PostgresStore) ByInterview(ctx context.Context, interviewID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, interview_id, agent_name, model, prompt_tokens, completion_tokens, total_tokens, estimated_cost, cached, created_at
		 FROM llm_usage WHERE interview_id = $1 ORDER BY created_at DESC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Summary aggregates usage grouped by agent and model.
func (s *PostgresStore) Summary(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent_name, model, COUNT(*), COUNT(*) FILTER (WHERE cached), SUM(prompt_tokens), SUM(completion_tokens), SUM(total_tokens), SUM(estimated_cost)
		 FROM llm_usage GROUP BY agent_name, model ORDER BY agent_name, model`,
	)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// TotalCost returns the estimated spend across all records.
func (s *PostgresStore) TotalCost(ctx context.Context) (float64, error) {
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
