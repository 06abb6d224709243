package sequencer

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// DefaultCacheCapacity is the number of commit ids buffered per
// sequence before the cache flushes to its artifact.
const DefaultCacheCapacity = 1000

// outputCache is the bounded write buffer for one sequence artifact.
//
// Commits are buffered up to the configured capacity and written in
// insertion order, one id per line. Peak memory is O(capacity)
// regardless of how long the sequence grows, which is what lets a walk
// over a history with hundreds of thousands of commits proceed without
// ever materializing a full sequence.
//
// A cache exclusively owns its artifact file handle from newOutputCache
// until destroy.
type outputCache struct {
	file     *os.File
	buf      []string
	capacity int
	total    int
}

// newOutputCache creates the artifact file and an empty cache for it.
// An existing file at path is truncated.
func newOutputCache(path string, capacity int) (*outputCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, &RunError{
			Code:    ErrCodeCacheIO,
			Message: fmt.Sprintf("create sequence artifact %q", path),
			Err:     err,
		}
	}

	return &outputCache{
		file:     f,
		buf:      make([]string, 0, capacity),
		capacity: capacity,
	}, nil
}

// add buffers one commit id, flushing first if the buffer is full.
// A blank id is rejected as a no-op with a logged warning, not an
// error: it signals a malformed plumbing line upstream, and dropping
// it keeps the artifact well-formed.
func (c *outputCache) add(commit string) error {
	if strings.TrimSpace(commit) == "" {
		slog.Warn("commit addition denied: id is empty or blank", "file", c.file.Name())
		return nil
	}

	if len(c.buf) == c.capacity {
		if err := c.flush(); err != nil {
			return err
		}
	}

	c.buf = append(c.buf, commit)
	c.total++
	return nil
}

// destroy flushes the remaining buffered commits and closes the
// artifact. Must be called exactly once; afterwards the artifact
// contains every added commit exactly once, in insertion order.
func (c *outputCache) destroy() error {
	flushErr := c.flush()
	closeErr := c.file.Close()

	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return &RunError{
			Code:    ErrCodeCacheIO,
			Message: fmt.Sprintf("close sequence artifact %q", c.file.Name()),
			Err:     closeErr,
		}
	}
	return nil
}

// totalCommits returns the number of commits added over the cache's
// lifetime, including already-flushed ones.
func (c *outputCache) totalCommits() int {
	return c.total
}

// flush appends the buffered commits to the artifact and resets the
// buffer.
func (c *outputCache) flush() error {
	if len(c.buf) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, commit := range c.buf {
		sb.WriteString(commit)
		sb.WriteByte('\n')
	}

	if _, err := c.file.WriteString(sb.String()); err != nil {
		return &RunError{
			Code:    ErrCodeCacheIO,
			Message: fmt.Sprintf("write sequence artifact %q", c.file.Name()),
			Err:     err,
		}
	}

	c.buf = c.buf[:0]
	return nil
}
