package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqlab/gitcs/internal/gitrepo"
	"github.com/seqlab/gitcs/internal/sequencer"
	"github.com/seqlab/gitcs/internal/store"
)

// SequenceOptions holds flags for the sequence command.
type SequenceOptions struct {
	*RootOptions
	ConfigFile    string
	GitBinary     string
	CacheCapacity int
	IndexDB       string
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequence <repository> <output-dir> [start-commit]",
		Short: "Generate all commit sequences of a repository",
		Long: `Generate every maximal commit sequence of a Git repository.

Starting from the given commit (default: the repository's current HEAD),
the sequencer walks the ancestry graph to each root commit. The first
parent of a merge continues the current sequence; every other parent
forks a new one. Each sequence is written to CommitSequence_<n>.txt in
the output directory, plus one shared summary CSV.

The output directory must exist and be empty.

Example:
  gitcs sequence /repos/linux /tmp/out
  gitcs sequence /repos/linux /tmp/out 3f5e8c1 --index-db /tmp/sequences.db`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			startCommit := ""
			if len(args) == 3 {
				startCommit = args[2]
			}
			return runSequence(opts, args[0], args[1], startCommit, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to YAML run configuration")
	cmd.Flags().StringVar(&opts.GitBinary, "git-binary", "", "git executable to invoke (default: git from PATH)")
	cmd.Flags().IntVar(&opts.CacheCapacity, "cache-capacity", 0, "per-sequence output cache size in commit ids (default: 1000)")
	cmd.Flags().StringVar(&opts.IndexDB, "index-db", "", "record completed sequences in a SQLite index at this path")

	return cmd
}

func runSequence(opts *SequenceOptions, repoPath, outDir, startCommit string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if err := applyConfig(opts, cmd); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	// All path validation happens before any traversal.
	if err := validateOutputDir(outDir); err != nil {
		return WrapExitError(ExitCommandError, "invalid output directory", err)
	}

	var repoOpts []gitrepo.Option
	if opts.GitBinary != "" {
		repoOpts = append(repoOpts, gitrepo.WithGitBinary(opts.GitBinary))
	}
	repo, err := gitrepo.Open(repoPath, repoOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid repository", err)
	}

	// Setup signal handling so a cancelled run stops at the next git query.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if startCommit == "" {
		startCommit, err = repo.Head(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "determining start commit failed", err)
		}
	}

	seqOpts := []sequencer.Option{sequencer.WithCacheCapacity(opts.CacheCapacity)}
	if opts.IndexDB != "" {
		st, err := store.Open(opts.IndexDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open index database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing index database", "error", closeErr)
			}
		}()
		seqOpts = append(seqOpts, sequencer.WithIndex(st))
	}

	seq := sequencer.New(repo, outDir, seqOpts...)
	result, err := seq.Run(ctx, startCommit)
	if err != nil {
		if sequencer.IsStartUnavailable(err) {
			_ = formatter.Error(string(sequencer.ErrCodeStartUnavailable), err.Error())
			return WrapExitError(ExitFailure, "no sequences produced", err)
		}
		return WrapExitError(ExitFailure, "sequence generation failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf(
		"Created %d commit sequence(s) with %d commit(s) total in %s (run %s)",
		result.Sequences, result.Commits, result.Duration.Round(time.Millisecond), result.RunToken,
	))
}

// applyConfig merges the optional config file under explicit flags.
// A flag changed on the command line always wins.
func applyConfig(opts *SequenceOptions, cmd *cobra.Command) error {
	if opts.ConfigFile == "" {
		return nil
	}

	cfg, err := LoadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("git-binary") && cfg.GitBinary != "" {
		opts.GitBinary = cfg.GitBinary
	}
	if !cmd.Flags().Changed("cache-capacity") && cfg.CacheCapacity > 0 {
		opts.CacheCapacity = cfg.CacheCapacity
	}
	if !cmd.Flags().Changed("index-db") && cfg.IndexDB != "" {
		opts.IndexDB = cfg.IndexDB
	}
	return nil
}

// validateOutputDir enforces the output contract: the directory must
// exist, be a directory, and be empty.
func validateOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("output directory %q: %w", dir, err)
	}
	if len(entries) != 0 {
		return fmt.Errorf("output directory %q is not empty", dir)
	}
	return nil
}
