// Package storage persists UCI tuning snapshots (the debug
// "load"/"dump" commands) to an embedded BadgerDB instance.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessplay-core/internal/board"
)

const snapshotKeyPrefix = "snapshot:"

// TuningSnapshot is the on-wire JSON schema: {hash_size,
// move_overhead, chess960, piece_values[6][2], psq_bonus[6][8][8][2]}.
// piece_values and psq_bonus are tapered (index 0 = midgame, 1 =
// endgame); material values are currently untapered, so both phases
// carry the same figure for piece_values.
type TuningSnapshot struct {
	HashSizeMB   int             `json:"hash_size"`
	MoveOverhead int             `json:"move_overhead"`
	Chess960     bool            `json:"chess960"`
	PieceValues  [6][2]int       `json:"piece_values"`
	PSQBonus     [6][8][8][2]int `json:"psq_bonus"`
}

// CurrentSnapshot builds a TuningSnapshot from the engine's live
// configuration and piece-square tables.
func CurrentSnapshot(hashSizeMB, moveOverheadMS int, chess960 bool) TuningSnapshot {
	var snap TuningSnapshot
	snap.HashSizeMB = hashSizeMB
	snap.MoveOverhead = moveOverheadMS
	snap.Chess960 = chess960

	for pt := 0; pt < 6; pt++ {
		v := board.PieceValue[pt]
		snap.PieceValues[pt] = [2]int{v, v}
	}

	mg, eg := board.MGPST(), board.EGPST()
	for pt := 0; pt < 6; pt++ {
		for sq := 0; sq < 64; sq++ {
			rank, file := sq/8, sq%8
			snap.PSQBonus[pt][rank][file][0] = mg[pt][sq]
			snap.PSQBonus[pt][rank][file][1] = eg[pt][sq]
		}
	}
	return snap
}

// Apply writes the snapshot's piece values and piece-square tables
// back into the live evaluation tables (used by debug "load"). Hash
// size, move overhead, and chess960 are not applied here; the caller
// reads them from the snapshot fields and applies them to the
// engine/UCI session.
func (snap TuningSnapshot) Apply() {
	var values [7]int
	for pt := 0; pt < 6; pt++ {
		values[pt] = snap.PieceValues[pt][0]
	}
	board.SetPieceValues(values)

	var mg, eg [6][64]int
	for pt := 0; pt < 6; pt++ {
		for rank := 0; rank < 8; rank++ {
			for file := 0; file < 8; file++ {
				sq := rank*8 + file
				mg[pt][sq] = snap.PSQBonus[pt][rank][file][0]
				eg[pt][sq] = snap.PSQBonus[pt][rank][file][1]
			}
		}
	}
	board.SetPSQT(mg, eg)
}

// Storage wraps BadgerDB for persisting named tuning snapshots.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the BadgerDB instance under
// the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DumpSnapshot persists snap under name (debug "dump").
func (s *Storage) DumpSnapshot(name string, snap TuningSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal tuning snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKeyPrefix+name), data)
	})
}

// LoadSnapshot reads back a previously dumped snapshot (debug "load").
func (s *Storage) LoadSnapshot(name string) (TuningSnapshot, error) {
	var snap TuningSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return snap, fmt.Errorf("load tuning snapshot %q: %w", name, err)
	}
	return snap, nil
}
