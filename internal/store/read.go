package store

import (
	"context"
	"fmt"
)

// SequencesByRun returns every sequence recorded for a run token, in
// insertion order.
func (s *Store) SequencesByRun(ctx context.Context, runToken string) ([]SequenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, artifact, start_commit, commit_count, created_at
		FROM sequences
		WHERE run_token = ?
		ORDER BY id
	`, runToken)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var records []SequenceRecord
	for rows.Next() {
		var rec SequenceRecord
		if err := rows.Scan(&rec.RunToken, &rec.Artifact, &rec.StartCommit, &rec.CommitCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequences: %w", err)
	}

	return records, nil
}

// CountSequences returns the total number of indexed sequences across
// all runs.
func (s *Store) CountSequences(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sequences`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sequences: %w", err)
	}
	return count, nil
}
