// Package retention prunes aged per-test artifact directories (proofs,
// scratch space, logs) so long-lived installations do not accumulate
// unbounded output. Pruning can run once on demand or on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// Roots are the base directories whose per-test child directories are
	// subject to pruning (e.g., the proofs, temp, and log_files paths).
	Roots []string

	// MaxAge is how long a per-test directory is retained after its last
	// modification. 0 means keep everything (no pruning).
	// Default: 90 days
	MaxAge time.Duration

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string

	// Keep lists directory names never pruned regardless of age.
	// Default: ["default"] (the sentinel test identifier).
	Keep []string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAge:        90 * 24 * time.Hour,
		PruneSchedule: "0 3 * * *",
		Keep:          []string{"default"},
	}
}

// Pruner deletes per-test directories older than the retention period.
type Pruner struct {
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a pruner. A nil config uses DefaultConfig.
func NewPruner(config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Keep) == 0 {
		config.Keep = []string{"default"}
	}

	pruner := &Pruner{
		config: config,
		logger: slog.Default().With("component", "retention"),
	}
	pruner.scheduler = NewScheduler(pruner)
	return pruner
}

// Scheduler returns the pruner's cron scheduler.
func (p *Pruner) Scheduler() *Scheduler { return p.scheduler }

// Prune deletes every per-test child directory of the configured roots
// whose modification time is older than MaxAge. Directories named in Keep
// are never touched. A missing root is not an error. Returns the number of
// directories removed.
func (p *Pruner) Prune(ctx context.Context) (int, error) {
	if p.config.MaxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-p.config.MaxAge)

	pruned := 0
	for _, root := range p.config.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return pruned, fmt.Errorf("read retention root %q: %w", root, err)
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return pruned, err
			}
			if !entry.IsDir() || p.keep(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}

			path := filepath.Join(root, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				return pruned, fmt.Errorf("prune %q: %w", path, err)
			}
			p.logger.Info("pruned test artifacts", "path", path, "age", time.Since(info.ModTime()).Round(time.Hour))
			pruned++
		}
	}
	return pruned, nil
}

func (p *Pruner) keep(name string) bool {
	for _, kept := range p.config.Keep {
		if name == kept {
			return true
		}
	}
	return false
}
