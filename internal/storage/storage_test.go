package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "chessplay-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	opts := badger.DefaultOptions(filepath.Join(tmpDir, "db"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Storage{db: db}
}

func TestCurrentSnapshot(t *testing.T) {
	snap := CurrentSnapshot(64, 30, true)
	if snap.HashSizeMB != 64 {
		t.Errorf("HashSizeMB = %d, want 64", snap.HashSizeMB)
	}
	if snap.MoveOverhead != 30 {
		t.Errorf("MoveOverhead = %d, want 30", snap.MoveOverhead)
	}
	if !snap.Chess960 {
		t.Error("Chess960 = false, want true")
	}
	if snap.PieceValues[0][0] != 100 {
		t.Errorf("pawn piece value = %d, want 100", snap.PieceValues[0][0])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	original := CurrentSnapshot(128, 50, false)
	original.PieceValues[4][0] = 950 // perturb the queen's midgame value

	if err := s.DumpSnapshot("test", original); err != nil {
		t.Fatalf("DumpSnapshot failed: %v", err)
	}

	loaded, err := s.LoadSnapshot("test")
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.HashSizeMB != 128 || loaded.MoveOverhead != 50 || loaded.Chess960 {
		t.Errorf("loaded snapshot mismatch: %+v", loaded)
	}
	if loaded.PieceValues[4][0] != 950 {
		t.Errorf("queen midgame value = %d, want 950", loaded.PieceValues[4][0])
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := openTestStorage(t)

	if _, err := s.LoadSnapshot("does-not-exist"); err == nil {
		t.Error("expected an error loading a missing snapshot")
	}
}

func TestApplyRestoresLiveTables(t *testing.T) {
	snap := CurrentSnapshot(64, 10, false)
	snap.PieceValues[0][0] = 123
	snap.Apply()

	after := CurrentSnapshot(64, 10, false)
	if after.PieceValues[0][0] != 123 {
		t.Errorf("pawn value after Apply = %d, want 123", after.PieceValues[0][0])
	}

	// Restore the default so other tests in the package observe the
	// standard material values.
	defaultSnap := CurrentSnapshot(64, 10, false)
	defaultSnap.PieceValues[0] = [2]int{100, 100}
	defaultSnap.Apply()
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
	t.Logf("data directory: %s", dataDir)
}
