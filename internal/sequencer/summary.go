package sequencer

import (
	"bufio"
	"fmt"
	"os"
)

// SummaryFileName is the name of the shared summary artifact, one CSV
// line per completed sequence: <artifact-basename>,<commit-count>.
const SummaryFileName = "GitCommitSequencer_Summary.csv"

// summaryWriter appends one record per completed sequence to the
// shared summary file.
//
// The file is opened once per run and owned exclusively by the
// sequencer. Records are flushed through a buffered writer after each
// append so memory stays bounded even for runs producing very many
// sequences, and so the summary is current if a later sequence fails.
type summaryWriter struct {
	file *os.File
	w    *bufio.Writer
}

func newSummaryWriter(path string) (*summaryWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &RunError{
			Code:    ErrCodeSummaryIO,
			Message: fmt.Sprintf("create summary file %q", path),
			Err:     err,
		}
	}
	return &summaryWriter{file: f, w: bufio.NewWriter(f)}, nil
}

// append records one completed sequence.
func (s *summaryWriter) append(artifactName string, commitCount int) error {
	if _, err := fmt.Fprintf(s.w, "%s,%d\n", artifactName, commitCount); err != nil {
		return &RunError{
			Code:    ErrCodeSummaryIO,
			Message: fmt.Sprintf("append summary record for %q", artifactName),
			Err:     err,
		}
	}
	if err := s.w.Flush(); err != nil {
		return &RunError{
			Code:    ErrCodeSummaryIO,
			Message: fmt.Sprintf("flush summary record for %q", artifactName),
			Err:     err,
		}
	}
	return nil
}

func (s *summaryWriter) close() error {
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
