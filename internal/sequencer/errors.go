package sequencer

import (
	"errors"
	"fmt"
)

// RunError represents a failure detected while generating commit
// sequences.
//
// Run errors include:
//   - Start unavailable: the requested start commit does not exist
//   - VCS query failure: a plumbing query returned a non-zero status
//   - Cache I/O failure: writing or flushing a sequence artifact failed
//   - Summary I/O failure: appending to the shared summary file failed
//
// Only a start-commit failure aborts a run. Every other code marks a
// single sequence as truncated while the remaining work list drains.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// Seq identifies the affected sequence, 0 if none.
	Seq int

	// Commit identifies the commit being processed, if any.
	Commit string

	// Err is the underlying cause, if any.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeStartUnavailable indicates the start commit does not exist
	// in the repository.
	ErrCodeStartUnavailable RunErrorCode = "START_COMMIT_UNAVAILABLE"

	// ErrCodeVCSQueryFailed indicates a git plumbing query failed.
	ErrCodeVCSQueryFailed RunErrorCode = "VCS_QUERY_FAILED"

	// ErrCodeCacheIO indicates a sequence artifact write or flush failed.
	ErrCodeCacheIO RunErrorCode = "CACHE_IO_FAILED"

	// ErrCodeSummaryIO indicates a summary file write failed.
	ErrCodeSummaryIO RunErrorCode = "SUMMARY_IO_FAILED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	switch {
	case e.Seq > 0 && e.Commit != "":
		return fmt.Sprintf("%s: %s (seq=%d, commit=%s)", e.Code, e.Message, e.Seq, e.Commit)
	case e.Seq > 0:
		return fmt.Sprintf("%s: %s (seq=%d)", e.Code, e.Message, e.Seq)
	case e.Commit != "":
		return fmt.Sprintf("%s: %s (commit=%s)", e.Code, e.Message, e.Commit)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsStartUnavailable returns true if the error reports a missing start
// commit. Uses errors.As to handle wrapped errors.
func IsStartUnavailable(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStartUnavailable
	}
	return false
}

// IsVCSQueryFailure returns true if the error reports a failed plumbing
// query. Uses errors.As to handle wrapped errors.
func IsVCSQueryFailure(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeVCSQueryFailed
	}
	return false
}

// NewStartUnavailableError creates a RunError for a missing start commit.
func NewStartUnavailableError(commit string) *RunError {
	return &RunError{
		Code:    ErrCodeStartUnavailable,
		Message: "start commit is not available in the repository",
		Commit:  commit,
	}
}
