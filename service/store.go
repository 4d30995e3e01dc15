package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/katalvlaran/mipmh/solver"
)

// schemaSQL is compiled into the binary so schema init works without the
// source tree present.
//
//go:embed schema.sql
var schemaSQL string

// Store persists finished solve runs in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// ConnectStore initializes the connection pool.
func ConnectStore(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("Connected to PostgreSQL solve-run store")
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded DDL.
func (s *Store) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}
	return nil
}

// SaveResult archives one finished run.
func (s *Store) SaveResult(ctx context.Context, result *solver.Result) error {
	solution, err := json.Marshal(result.Solution)
	if err != nil {
		return err
	}

	const insertSQL = `
		INSERT INTO solve_runs
			(run_id, model_name, objective, is_feasible, elapsed_time, tabu_loops, solution)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO NOTHING`

	_, err = s.pool.Exec(ctx, insertSQL,
		result.RunID,
		result.Status.ModelSummary.Name,
		result.Solution.Objective,
		result.Solution.IsFeasible,
		result.Status.ElapsedTime,
		result.Status.NumberOfTabuSearchLoops,
		solution,
	)
	return err
}
