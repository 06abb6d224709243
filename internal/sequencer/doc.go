// Package sequencer implements the commit sequence generation engine.
//
// A commit sequence is one maximal path from a chosen start commit to
// a root commit of a git ancestry graph, ordered newest to oldest. The
// engine enumerates every distinct sequence reachable from the start
// commit and streams each one to its own artifact under bounded memory.
//
// ARCHITECTURE:
//
// Work-List Scheduling:
// The Sequencer runs exactly one builder at a time. A builder walking
// through a merge commit continues along the first parent and defers
// every other parent onto a FIFO work list instead of recursing. This
// keeps call-stack depth constant regardless of history depth or
// branching factor, and it gives a useful ordering guarantee: a
// deferred sequence is only popped after the sequence that discovered
// it has completed.
//
// Prefix Sharing:
// A deferred sequence shares all ancestry above its branch point with
// the sequence that discovered it. Rather than re-querying git or
// buffering the shared segment, its builder replays the sibling's
// already-written artifact line by line up to and including the branch
// point. The FIFO guarantee above makes that artifact complete and
// closed by the time it is read.
//
// Bounded Memory:
// Each sequence writes through an output cache of fixed capacity
// (default 1000 commit ids). A sequence is never fully materialized in
// memory, so peak usage is O(capacity) even for histories with
// hundreds of thousands of commits.
//
// Failure Model:
// A failed plumbing query terminates only the affected walk, leaving a
// truncated artifact and a logged diagnostic; the remaining work list
// still drains. Only a missing start commit aborts a run, producing
// zero sequences.
package sequencer
