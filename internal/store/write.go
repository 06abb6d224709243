package store

import (
	"context"
	"fmt"
)

// SequenceRecord is one completed commit sequence as stored in the
// index.
type SequenceRecord struct {
	RunToken    string
	Artifact    string
	StartCommit string
	CommitCount int
	CreatedAt   string
}

// WriteSequence inserts a sequence record into the index.
// Uses ON CONFLICT DO NOTHING for idempotency - re-recording the same
// (run_token, artifact) pair is silently ignored.
func (s *Store) WriteSequence(ctx context.Context, rec SequenceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sequences
		(run_token, artifact, start_commit, commit_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_token, artifact) DO NOTHING
	`,
		rec.RunToken,
		rec.Artifact,
		rec.StartCommit,
		rec.CommitCount,
	)
	if err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}

	return nil
}
