package sequencer

import "sync"

// pendingSequence is a deferred sequence discovered at a merge commit.
//
// When executed, the builder first replays parentArtifact line by line
// up to and including branchPoint, then continues walking from
// startCommit. The parent artifact is guaranteed complete by then
// because the work list is drained strictly FIFO: a parent finishes
// before any sequence it enqueued is popped.
type pendingSequence struct {
	// startCommit is the parent commit that forks off the new sequence.
	startCommit string

	// parentArtifact is the path of the already-materialized sibling
	// artifact whose prefix is inherited.
	parentArtifact string

	// branchPoint is the merge commit at which the fork happened; the
	// last line copied from parentArtifact.
	branchPoint string
}

// workQueue is a FIFO queue of deferred sequences.
//
// The queue is unbounded: a single merge-heavy walk can enqueue
// arbitrarily many forks before any of them runs.
//
// The baseline sequencer is single-threaded (one builder at a time
// enqueues while the run loop pops), so the mutex is not strictly
// required today. It is kept so that parallel builders only need the
// documented discipline of serialized summary writes, not a queue
// rewrite.
type workQueue struct {
	mu    sync.Mutex
	items []pendingSequence
}

func newWorkQueue() *workQueue {
	return &workQueue{
		items: make([]pendingSequence, 0, 16),
	}
}

// enqueue adds a pending sequence to the back of the queue.
func (q *workQueue) enqueue(p pendingSequence) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
}

// dequeue removes and returns the front pending sequence.
// Returns (pendingSequence{}, false) if the queue is empty.
func (q *workQueue) dequeue() (pendingSequence, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return pendingSequence{}, false
	}

	p := q.items[0]

	// Nil out the slot so the backing array does not retain the item's
	// strings until reallocation.
	q.items[0] = pendingSequence{}

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return p, true
}

// len returns the current queue length.
func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
