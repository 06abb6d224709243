package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/seqlab/gitcs/internal/store"
)

// Artifact naming for individual commit sequences:
// CommitSequence_<n>.txt, where n is the 1-based sequence number.
const (
	artifactNamePrefix = "CommitSequence_"
	artifactNameSuffix = ".txt"
)

// Repo is the read-only view of a git repository the sequencer needs.
// Production uses *gitrepo.Repository; tests substitute an in-memory DAG.
type Repo interface {
	// Exists reports whether commit names an existing commit object.
	Exists(ctx context.Context, commit string) bool

	// Parents returns the parents of commit in the order git reports
	// them, empty for a root commit. The order is the tie-break
	// contract: the first parent continues a sequence, all others fork.
	Parents(ctx context.Context, commit string) ([]string, error)
}

// Sequencer orchestrates one commit sequence generation run.
//
// It owns the FIFO work list of deferred sequences, the monotonic
// sequence numbering, and the shared summary file. Builders execute
// strictly one at a time and in FIFO order, which guarantees a parent
// sequence's artifact is complete before any fork replays it.
//
// A Sequencer is single-use: create one per run.
type Sequencer struct {
	repo     Repo
	outDir   string
	capacity int
	index    *store.Store
	tokenGen RunTokenGenerator

	queue   *workQueue
	nextSeq int
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithCacheCapacity overrides the per-sequence output cache capacity.
// Values <= 0 keep the default.
func WithCacheCapacity(n int) Option {
	return func(s *Sequencer) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithIndex attaches a sequence index store. Each completed sequence
// is recorded as a row in addition to its summary line. The caller
// keeps ownership of the store and closes it after the run.
func WithIndex(st *store.Store) Option {
	return func(s *Sequencer) {
		s.index = st
	}
}

// WithRunTokenGenerator overrides the run token generator.
// Tests use FixedGenerator for deterministic index rows.
func WithRunTokenGenerator(gen RunTokenGenerator) Option {
	return func(s *Sequencer) {
		if gen != nil {
			s.tokenGen = gen
		}
	}
}

// New creates a Sequencer writing artifacts into outDir.
// outDir must be an existing, empty directory; the CLI boundary
// validates this before the engine starts.
func New(repo Repo, outDir string, opts ...Option) *Sequencer {
	s := &Sequencer{
		repo:     repo,
		outDir:   outDir,
		capacity: DefaultCacheCapacity,
		tokenGen: UUIDv7Generator{},
		queue:    newWorkQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunResult reports what a completed run produced.
type RunResult struct {
	// RunToken correlates log records and index rows of this run.
	RunToken string `json:"run_token"`

	// Sequences is the number of sequence artifacts created.
	Sequences int `json:"sequences"`

	// Commits is the total number of commit ids written across all
	// artifacts, inherited prefixes included.
	Commits int `json:"commits"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration_ns"`
}

// Run generates every commit sequence reachable from startCommit.
//
// It fails fast with a START_COMMIT_UNAVAILABLE error, producing zero
// sequences, if startCommit does not exist. Afterwards it executes the
// initial builder synchronously, then drains the work list FIFO until
// empty. The explicit queue, rather than recursive descent into forks,
// bounds call-stack depth independent of DAG depth or branching
// factor; production histories have thousands of linear hops and
// arbitrarily many merge points.
//
// Individual sequence failures (failed plumbing query, artifact I/O)
// are logged and leave a truncated artifact; they never abort the run.
func (s *Sequencer) Run(ctx context.Context, startCommit string) (*RunResult, error) {
	token := s.tokenGen.Generate()
	started := time.Now()

	log := slog.With("run", token)
	log.Info("sequence generation starting",
		"start_commit", startCommit,
		"out_dir", s.outDir,
	)

	if !s.repo.Exists(ctx, startCommit) {
		return nil, NewStartUnavailableError(startCommit)
	}

	summary, err := newSummaryWriter(filepath.Join(s.outDir, SummaryFileName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := summary.close(); closeErr != nil {
			log.Error("closing summary file failed", "error", closeErr)
		}
	}()

	result := &RunResult{RunToken: token}

	// Initial sequence, then the deferred forks in discovery order.
	s.execute(ctx, s.newBuilder(startCommit, "", ""), summary, result, log)
	for {
		pending, ok := s.queue.dequeue()
		if !ok {
			break
		}
		b := s.newBuilder(pending.startCommit, pending.parentArtifact, pending.branchPoint)
		s.execute(ctx, b, summary, result, log)
	}

	result.Duration = time.Since(started)
	log.Info("sequence generation finished",
		"sequences", result.Sequences,
		"commits", result.Commits,
		"duration", result.Duration,
	)
	return result, nil
}

// newBuilder assigns the next sequence number and binds a builder to
// its artifact path. Numbering starts at 1 and is owned exclusively by
// the sequencer, so runs are reentrant and testable without global
// state.
func (s *Sequencer) newBuilder(startCommit, parentArtifact, branchPoint string) *builder {
	s.nextSeq++
	name := fmt.Sprintf("%s%d%s", artifactNamePrefix, s.nextSeq, artifactNameSuffix)
	return &builder{
		repo:           s.repo,
		seq:            s.nextSeq,
		startCommit:    startCommit,
		artifactPath:   filepath.Join(s.outDir, name),
		parentArtifact: parentArtifact,
		branchPoint:    branchPoint,
		enqueue:        s.queue.enqueue,
	}
}

// execute runs one builder to completion and records its outcome.
// A failed builder leaves its truncated artifact in place but gets no
// summary line or index row; the error is logged and the run goes on.
func (s *Sequencer) execute(ctx context.Context, b *builder, summary *summaryWriter, result *RunResult, log *slog.Logger) {
	log.Debug("sequence starting",
		"seq", b.seq,
		"start_commit", b.startCommit,
		"inherited", b.parentArtifact != "",
	)

	commits, err := b.run(ctx, s.capacity)
	if err != nil {
		log.Error("sequence failed", "seq", b.seq, "error", err)
		return
	}

	artifactName := filepath.Base(b.artifactPath)
	if err := summary.append(artifactName, commits); err != nil {
		log.Error("recording sequence summary failed", "seq", b.seq, "error", err)
		return
	}

	if s.index != nil {
		rec := store.SequenceRecord{
			RunToken:    result.RunToken,
			Artifact:    artifactName,
			StartCommit: b.startCommit,
			CommitCount: commits,
		}
		if err := s.index.WriteSequence(ctx, rec); err != nil {
			log.Error("indexing sequence failed", "seq", b.seq, "error", err)
		}
	}

	result.Sequences++
	result.Commits += commits
	log.Debug("sequence complete", "seq", b.seq, "commits", commits)
}
