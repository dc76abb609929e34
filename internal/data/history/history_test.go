package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_RecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	runs := []MergeRun{
		{RunID: "run-1", Timestamp: base, SourceRoot: "/src", OutputPath: "/out.cs", Status: "merged", LastEdited: base.Add(-time.Minute), Files: 3, Namespaces: 2, Imports: 4, Duration: 15 * time.Millisecond},
		{RunID: "run-2", Timestamp: base.Add(time.Second), SourceRoot: "/src", OutputPath: "/out.cs", Status: "failed", FailureKind: "extraction", Error: "[PARSE_ERROR] missing namespace declaration"},
		{RunID: "run-3", Timestamp: base.Add(2 * time.Second), SourceRoot: "/src", OutputPath: "/out.cs", Status: "merged", Files: 4},
	}
	for _, run := range runs {
		if err := store.Record(run); err != nil {
			t.Fatalf("record %s: %v", run.RunID, err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].RunID != "run-3" || got[1].RunID != "run-2" {
		t.Fatalf("expected newest first [run-3 run-2], got [%s %s]", got[0].RunID, got[1].RunID)
	}
	if got[1].FailureKind != "extraction" || got[1].Error == "" {
		t.Fatalf("expected failure details to round-trip, got %+v", got[1])
	}
	if !got[1].LastEdited.IsZero() {
		t.Fatalf("expected zero last edited for failed run, got %v", got[1].LastEdited)
	}

	all, err := store.Recent(0)
	if err != nil {
		t.Fatalf("recent default limit: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs with default limit, got %d", len(all))
	}
	first := all[2]
	if !first.Timestamp.Equal(base) || !first.LastEdited.Equal(base.Add(-time.Minute)) {
		t.Fatalf("timestamps did not round-trip: %+v", first)
	}
	if first.Duration != 15*time.Millisecond || first.Namespaces != 2 || first.Imports != 4 {
		t.Fatalf("counters did not round-trip: %+v", first)
	}
}

func TestStore_RejectsDuplicateAndEmptyRunID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Record(MergeRun{Status: "merged"}); err == nil {
		t.Fatal("expected error for empty run id")
	}
	if err := store.Record(MergeRun{RunID: "same", Status: "merged"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(MergeRun{RunID: "same", Status: "merged"}); err == nil {
		t.Fatal("expected unique constraint error for duplicate run id")
	}
}

func TestStore_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Record(MergeRun{RunID: "kept", Status: "merged"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "kept" {
		t.Fatalf("expected kept run after reopen, got %+v", runs)
	}
	if reopened.Path() != path {
		t.Fatalf("expected path %q, got %q", path, reopened.Path())
	}
}

func TestOpen_RejectsBadPaths(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}
