// Package engine implements the chess search engine.
package engine

import (
	"strconv"
	"time"

	"github.com/hailam/chessplay-core/internal/board"
)

// defaultMoveOverhead mirrors common UCI GUI defaults.
const defaultMoveOverhead = 30 * time.Millisecond

// SearchInfo describes one completed iterative-deepening iteration,
// forwarded to the UCI front-end as an "info" line.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	NPS      uint64
	Elapsed  time.Duration
	PV       []board.Move
}

// Engine is the single-worker search orchestrator: exactly one
// search goroutine per "go" command, with a classical tapered
// piece-square evaluation.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher
	tm       *TimeManager

	moveOverhead time.Duration
	chess960     bool

	// OnInfo, if set, is invoked once per completed depth during a
	// search.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a hash table of the given size (MB).
func NewEngine(hashMB int) *Engine {
	if hashMB <= 0 {
		hashMB = 16
	}
	tt := NewTranspositionTable(hashMB)
	return &Engine{
		tt:           tt,
		searcher:     NewSearcher(tt),
		tm:           NewTimeManager(),
		moveOverhead: defaultMoveOverhead,
	}
}

// SetHashSize resizes the transposition table (UCI "Hash" option).
func (e *Engine) SetHashSize(mb int) {
	if mb <= 0 {
		mb = 1
	}
	e.tt = NewTranspositionTable(mb)
	e.searcher.tt = e.tt
}

// SetMoveOverhead sets the communication-latency reserve subtracted
// from the time budget (UCI "MoveOverhead" option).
func (e *Engine) SetMoveOverhead(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.moveOverhead = d
}

// SetChess960 toggles Chess960 (Fischer Random) castling move notation
// on the UCI wire (UCI "UCI_Chess960" option).
func (e *Engine) SetChess960(v bool) {
	e.chess960 = v
}

// Chess960 reports whether Chess960 notation is active.
func (e *Engine) Chess960() bool {
	return e.chess960
}

// Clear resets the transposition table and move-ordering heuristics
// (UCI "ucinewgame" and the "Clear Hash" debug command).
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ClearOrderer()
}

// Stop signals an in-progress search to return its best move so far.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// HashFull returns the permille of the transposition table in use.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// SearchWithUCILimits runs a search governed by UCI "go" parameters
// and returns the best move found. pos carries its own History
// (populated by "position ... moves ..."), which is what drives
// in-search repetition detection.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits) board.Move {
	e.tt.NewSearch()
	e.tm.Init(limits, pos.SideToMove, e.moveOverhead)
	e.searcher.SetMateTarget(limits.Mate)
	e.searcher.SetNodeLimit(limits.Nodes)
	defer e.searcher.SetMateTarget(0)
	defer e.searcher.SetNodeLimit(0)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	start := time.Now()
	e.searcher.InfoFunc = func(depth, seldepth, score int, nodes uint64, pv []board.Move) {
		if e.OnInfo == nil {
			return
		}
		elapsed := time.Since(start)
		nps := uint64(0)
		if elapsed > 0 {
			nps = uint64(float64(nodes) / elapsed.Seconds())
		}
		e.OnInfo(SearchInfo{
			Depth:    depth,
			SelDepth: seldepth,
			Score:    score,
			Nodes:    nodes,
			NPS:      nps,
			Elapsed:  elapsed,
			PV:       pv,
		})
	}

	move, _ := e.searcher.SearchIterative(pos, maxDepth, e.tm)
	return move
}

// SearchWithExclusions re-runs SearchWithUCILimits with the given root
// moves excluded, used to build secondary MultiPV lines.
func (e *Engine) SearchWithExclusions(pos *board.Position, limits UCILimits, excluded []board.Move) board.Move {
	e.searcher.SetExcludedMoves(excluded)
	defer e.searcher.SetExcludedMoves(nil)
	return e.SearchWithUCILimits(pos, limits)
}

// SearchMultiPV returns the top n distinct root moves by repeatedly
// excluding previously found best moves.
func (e *Engine) SearchMultiPV(pos *board.Position, limits UCILimits, n int) []board.Move {
	if n <= 0 {
		n = 1
	}
	var lines []board.Move
	for i := 0; i < n; i++ {
		move := e.SearchWithExclusions(pos, limits, lines)
		if move == board.NoMove {
			break
		}
		lines = append(lines, move)
	}
	return lines
}

// Nodes returns the node count of the most recent search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Perft counts leaf nodes of the legal-move tree at the given depth,
// used by the "go perft" debug command.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return perft(pos, depth)
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		if undo.Valid {
			nodes += perft(pos, depth-1)
		}
		pos.UnmakeMove(move, undo)
	}
	return nodes
}

// Evaluate returns the static evaluation of pos from White's
// perspective (debug "eval" style command).
func (e *Engine) Evaluate(pos *board.Position) int {
	score := Evaluate(pos)
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}

// ScoreToString formats a centipawn or mate score for UCI "info score".
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		plies := MateScore - score
		return "mate " + strconv.Itoa((plies+1)/2)
	}
	if score < -MateScore+MaxPly {
		plies := MateScore + score
		return "mate -" + strconv.Itoa((plies+1)/2)
	}
	return "cp " + strconv.Itoa(score)
}
