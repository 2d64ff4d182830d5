package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// makeTestDir creates root/name and backdates its modification time by age.
func makeTestDir(t *testing.T, root, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
	return path
}

func TestPrune_RemovesAgedDirectories(t *testing.T) {
	root := t.TempDir()
	aged := makeTestDir(t, root, "run-old", 48*time.Hour)
	fresh := makeTestDir(t, root, "run-fresh", time.Hour)

	pruner := NewPruner(&Config{
		Roots:  []string{root},
		MaxAge: 24 * time.Hour,
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 directory pruned, got %d", pruned)
	}
	if _, err := os.Stat(aged); !os.IsNotExist(err) {
		t.Errorf("expected aged directory removed, stat err = %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected fresh directory kept: %v", err)
	}
}

func TestPrune_SparesKeptNames(t *testing.T) {
	root := t.TempDir()
	kept := makeTestDir(t, root, "default", 365*24*time.Hour)

	pruner := NewPruner(&Config{
		Roots:  []string{root},
		MaxAge: 24 * time.Hour,
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected nothing pruned, got %d", pruned)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("expected kept directory to survive: %v", err)
	}
}

func TestPrune_IgnoresFiles(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "results.xml")
	if err := os.WriteFile(file, []byte("<testsuite/>"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(file, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	pruner := NewPruner(&Config{
		Roots:  []string{root},
		MaxAge: 24 * time.Hour,
	})

	if _, err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("expected plain file untouched: %v", err)
	}
}

func TestPrune_MissingRootSkipped(t *testing.T) {
	root := t.TempDir()
	aged := makeTestDir(t, root, "run-old", 48*time.Hour)

	pruner := NewPruner(&Config{
		Roots:  []string{filepath.Join(root, "does-not-exist"), root},
		MaxAge: 24 * time.Hour,
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected later root still processed, pruned = %d", pruned)
	}
	if _, err := os.Stat(aged); !os.IsNotExist(err) {
		t.Errorf("expected aged directory removed, stat err = %v", err)
	}
}

func TestPrune_ZeroMaxAgeKeepsEverything(t *testing.T) {
	root := t.TempDir()
	aged := makeTestDir(t, root, "run-old", 365*24*time.Hour)

	pruner := NewPruner(&Config{
		Roots:  []string{root},
		MaxAge: 0,
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected no pruning with zero max age, got %d", pruned)
	}
	if _, err := os.Stat(aged); err != nil {
		t.Errorf("expected directory kept: %v", err)
	}
}

func TestPrune_CancelledContext(t *testing.T) {
	root := t.TempDir()
	makeTestDir(t, root, "run-old", 48*time.Hour)

	pruner := NewPruner(&Config{
		Roots:  []string{root},
		MaxAge: 24 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pruner.Prune(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewPruner_NilConfigUsesDefaults(t *testing.T) {
	pruner := NewPruner(nil)

	if pruner.config.MaxAge != 90*24*time.Hour {
		t.Errorf("expected default max age, got %v", pruner.config.MaxAge)
	}
	if len(pruner.config.Keep) != 1 || pruner.config.Keep[0] != "default" {
		t.Errorf("expected default keep list, got %v", pruner.config.Keep)
	}
}

func TestScheduler_EmptyScheduleIsNoOp(t *testing.T) {
	pruner := NewPruner(&Config{MaxAge: 24 * time.Hour})

	if err := pruner.Scheduler().Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pruner.Scheduler().IsRunning() {
		t.Error("expected scheduler not running without a schedule")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(&Config{
		MaxAge:        24 * time.Hour,
		PruneSchedule: "not a cron expression",
	})

	if err := pruner.Scheduler().Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	pruner := NewPruner(&Config{
		MaxAge:        24 * time.Hour,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := pruner.Scheduler()
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !scheduler.IsRunning() {
		t.Error("expected scheduler running")
	}

	scheduler.Stop()
	if scheduler.IsRunning() {
		t.Error("expected scheduler stopped")
	}
	scheduler.Stop()
}
