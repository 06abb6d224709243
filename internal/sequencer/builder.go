package sequencer

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
)

// builder walks one commit sequence from its start commit to a root
// and streams it into an output cache.
//
// A builder never recurses into the forks it discovers. Each non-first
// parent of a merge commit is handed to the sequencer's work list as a
// pendingSequence and the builder continues along the first parent.
// This keeps call-stack depth constant no matter how deep or branchy
// the history is.
type builder struct {
	repo         Repo
	seq          int
	startCommit  string
	artifactPath string

	// Inherited prefix, both empty for the initial sequence.
	parentArtifact string
	branchPoint    string

	enqueue func(pendingSequence)
}

// run executes the walk and returns the total number of commits
// written to the artifact.
//
// A failed plumbing query terminates the walk at that point with a
// logged diagnostic; the sequence artifact stays truncated but valid
// and the error is not propagated, so the rest of the run continues.
// Only artifact I/O failures are returned.
func (b *builder) run(ctx context.Context, capacity int) (int, error) {
	cache, err := newOutputCache(b.artifactPath, capacity)
	if err != nil {
		return 0, err
	}

	walkErr := b.walk(ctx, cache)

	// The cache is destroyed exactly once, also on a failed walk, so a
	// truncated sequence still flushes what it has.
	destroyErr := cache.destroy()

	if walkErr != nil {
		return cache.totalCommits(), walkErr
	}
	return cache.totalCommits(), destroyErr
}

func (b *builder) walk(ctx context.Context, cache *outputCache) error {
	if b.parentArtifact != "" {
		if err := b.inheritPrefix(cache); err != nil {
			return err
		}
	}

	if err := cache.add(b.startCommit); err != nil {
		return err
	}

	tail := b.startCommit
	for {
		parents, err := b.repo.Parents(ctx, tail)
		if err != nil {
			// Terminates this walk only. The artifact keeps everything
			// emitted so far and the remaining work list still drains.
			slog.Error("parent query failed, sequence truncated",
				"seq", b.seq,
				"commit", tail,
				"error", err,
			)
			return nil
		}
		if len(parents) == 0 {
			// Root reached.
			return nil
		}

		// Every parent after the first forks a new sequence that will
		// replay this artifact up to and including the current tail
		// before walking on its own.
		for _, parent := range parents[1:] {
			b.enqueue(pendingSequence{
				startCommit:    parent,
				parentArtifact: b.artifactPath,
				branchPoint:    tail,
			})
		}

		tail = parents[0]
		if err := cache.add(tail); err != nil {
			return err
		}
	}
}

// inheritPrefix copies the parent artifact line by line into the cache
// until the branch point has been copied (inclusive). This rebuilds
// the shared ancestry without re-querying git and without holding two
// sequences in memory at once.
func (b *builder) inheritPrefix(cache *outputCache) error {
	f, err := os.Open(b.parentArtifact)
	if err != nil {
		return &RunError{
			Code:    ErrCodeCacheIO,
			Message: fmt.Sprintf("open parent artifact %q", b.parentArtifact),
			Seq:     b.seq,
			Err:     err,
		}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if err := cache.add(line); err != nil {
			return err
		}
		if line == b.branchPoint {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return &RunError{
			Code:    ErrCodeCacheIO,
			Message: fmt.Sprintf("read parent artifact %q", b.parentArtifact),
			Seq:     b.seq,
			Err:     err,
		}
	}
	return nil
}
