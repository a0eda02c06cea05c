package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/chessplay-core/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// lmrTable[depth][moveCount] is a logarithmic late-move reduction
// table built from the classic 0.2 + ln(depth)*ln(moveCount)/2
// formula.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			r := 0.2 + math.Log(float64(d))*math.Log(float64(m))/2.0
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int(r)
		}
	}
}

// Searcher performs a single-worker alpha-beta search: one search
// goroutine per go command, cooperative cancellation via stopFlag.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer
	tm      *TimeManager

	nodes     uint64
	nodeLimit uint64
	seldepth  int
	stopFlag  atomic.Bool

	pv PVTable

	undoStack [MaxPly]board.UndoInfo

	rootIndex    int
	excludedRoot map[board.Move]bool

	// mateTarget is the "go mate <n>" requested distance in moves
	// (0 = not requested); iterative deepening stops early once a mate
	// at or within this distance is confirmed.
	mateTarget int

	// InfoFunc is called after each completed iterative-deepening
	// depth with the current best line (drives UCI "info" output).
	InfoFunc func(depth, seldepth, score int, nodes uint64, pv []board.Move)
}

// SetMateTarget sets the "go mate <n>" requested mate distance in
// moves (0 clears it).
func (s *Searcher) SetMateTarget(n int) {
	s.mateTarget = n
}

// SetNodeLimit caps the search at n nodes ("go nodes <n>"; 0 = no cap).
// The cap is checked at the same ~1024-node granularity as the clock.
func (s *Searcher) SetNodeLimit(n uint64) {
	s.nodeLimit = n
}

// checkStop polls the cooperative stop conditions: an external stop
// request, the hard time bound, and the node budget.
func (s *Searcher) checkStop() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.stopFlag.Store(true)
		return true
	}
	if s.tm != nil && s.tm.ShouldStop() {
		s.stopFlag.Store(true)
		return true
	}
	return false
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.seldepth = 0
	s.orderer.Clear()
}

// ClearOrderer discards killer/history/counter-move tables, used on
// "ucinewgame" and the "Clear Hash" debug command.
func (s *Searcher) ClearOrderer() {
	s.orderer.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// SetExcludedMoves restricts the root move list, used to implement
// MultiPV by re-searching with previously reported best moves excluded.
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	if len(moves) == 0 {
		s.excludedRoot = nil
		return
	}
	s.excludedRoot = make(map[board.Move]bool, len(moves))
	for _, m := range moves {
		s.excludedRoot[m] = true
	}
}

// SearchIterative performs iterative deepening with aspiration
// windows, stopping when tm says to or maxDepth is reached.
func (s *Searcher) SearchIterative(pos *board.Position, maxDepth int, tm *TimeManager) (board.Move, int) {
	s.pos = pos.Copy()
	s.rootIndex = len(s.pos.History)
	s.tm = tm
	s.Reset()

	var bestMove board.Move
	var bestScore int
	var stability, changes int

	for depth := 1; depth <= maxDepth && depth < MaxPly; depth++ {
		window := 25
		alpha, beta := -Infinity, Infinity
		if depth > 4 {
			alpha = bestScore - window
			beta = bestScore + window
		}

		var score int
		for {
			score = s.negamax(depth, 0, alpha, beta, true, board.NoMove)
			if s.stopFlag.Load() {
				break
			}
			if score <= alpha {
				alpha -= window
				if alpha < -Infinity {
					alpha = -Infinity
				}
				window *= 2
				continue
			}
			if score >= beta {
				beta += window
				if beta > Infinity {
					beta = Infinity
				}
				window *= 2
				continue
			}
			break
		}

		if s.stopFlag.Load() && depth > 1 {
			break
		}

		if s.pv.length[0] > 0 {
			if s.pv.moves[0][0] == bestMove {
				stability++
				changes = 0
			} else {
				changes++
				stability = 0
			}
			bestMove = s.pv.moves[0][0]
			bestScore = score
		}

		if s.InfoFunc != nil {
			s.InfoFunc(depth, s.seldepth, bestScore, s.nodes, s.GetPV())
		}

		if s.stopFlag.Load() {
			break
		}
		if tm != nil {
			if changes > 0 {
				tm.AdjustForInstability(changes)
			} else if stability > 0 {
				tm.AdjustForStability(stability)
			}
			if tm.PastOptimum() {
				break
			}
		}
		if s.mateTarget > 0 && bestScore > MateScore-MaxPly {
			movesToMate := (MateScore - bestScore + 1) / 2
			if movesToMate <= s.mateTarget {
				break
			}
		}
	}

	return bestMove, bestScore
}

// Search performs a single fixed-depth search with no time control,
// used by tests and by Perft-adjacent callers.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.rootIndex = len(s.pos.History)
	s.tm = nil
	s.nodeLimit = 0
	s.Reset()

	score := s.negamax(depth, 0, -Infinity, Infinity, true, board.NoMove)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}
	return bestMove, score
}

// negamax implements negamax with alpha-beta pruning, null-move
// pruning, PVS re-search, and late-move reductions.
// prevMove is the move that led to this node (NoMove at the root and
// after a null move), feeding the countermove ordering tables.
func (s *Searcher) negamax(depth, ply int, alpha, beta int, pvNode bool, prevMove board.Move) int {
	if s.nodes&1023 == 0 && s.checkStop() {
		return 0
	}

	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}
	s.pv.length[ply] = ply

	if ply > 0 {
		if s.isDraw() {
			return 0
		}
		if a := -MateScore + ply; a > alpha {
			alpha = a
		}
		if b := MateScore - ply; b < beta {
			beta = b
		}
		if alpha >= beta {
			return alpha
		}
	}

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if ply > 0 && int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()

	// Null-move pruning: skip near the root, in check, and with only
	// pawns left (zugzwang risk).
	if !pvNode && !inCheck && depth >= 3 && ply > 0 && s.pos.HasNonPawnMaterial() {
		if Evaluate(s.pos) >= beta {
			reduction := 3 + depth/6
			undo := s.pos.MakeNullMove()
			score := -s.negamax(depth-1-reduction, ply+1, -beta, -beta+1, false, board.NoMove)
			s.pos.UnmakeNullMove(undo)
			if s.stopFlag.Load() {
				return 0
			}
			if score >= beta {
				return beta
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMovesWithCounter(s.pos, moves, ply, ttMove, prevMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	movesSearched := 0
	prevPiece := board.NoPiece
	if prevMove != board.NoMove {
		prevPiece = s.pos.PieceAt(prevMove.To())
	}

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if ply == 0 && s.excludedRoot != nil && s.excludedRoot[move] {
			continue
		}

		isCapture := move.IsCapture(s.pos)
		isPromo := move.IsPromotion()

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			continue
		}
		movesSearched++

		givesCheck := s.pos.InCheck()

		var score int
		switch {
		case movesSearched == 1:
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, pvNode, move)
		default:
			reduction := 0
			if depth >= 3 && movesSearched > 3 && !isCapture && !isPromo && !inCheck && !givesCheck {
				d, mc := depth, movesSearched
				if d > 63 {
					d = 63
				}
				if mc > 63 {
					mc = 63
				}
				reduction = lmrTable[d][mc]
				if !pvNode {
					reduction++
				}
				if reduction > depth-1 {
					reduction = depth - 1
				}
				if reduction < 0 {
					reduction = 0
				}
			}

			score = -s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, false, move)
			if score > alpha && reduction > 0 {
				score = -s.negamax(depth-1, ply+1, -alpha-1, -alpha, false, move)
			}
			if score > alpha && score < beta {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, true, move)
			}
		}

		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
			if isCapture {
				victim := board.Pawn
				if !move.IsEnPassant() {
					victim = s.pos.PieceAt(move.To()).Type()
				}
				s.orderer.UpdateCaptureHistory(s.pos.PieceAt(move.From()), move.To(), victim, depth, true)
			} else {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
				s.orderer.UpdateCounterMove(prevMove, move, s.pos)
				s.orderer.UpdateCountermoveHistory(prevMove, move, prevPiece, s.pos.PieceAt(move.From()), depth, true)
			}
			return score
		}
	}

	if movesSearched == 0 {
		// All legal moves were excluded (MultiPV exhaustion at root).
		return 0
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// quiescence searches captures (and, while in check, all evasions) to
// avoid the horizon effect. The transposition table is probed but
// never stored into.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	if ply >= MaxPly {
		return Evaluate(s.pos)
	}

	if s.nodes&1023 == 0 && s.checkStop() {
		return 0
	}
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}

	var ttMove board.Move
	if entry, found := s.tt.Probe(s.pos.Hash); found {
		ttMove = entry.BestMove
		score := AdjustScoreFromTT(int(entry.Score), ply)
		switch entry.Flag {
		case TTExact:
			return score
		case TTLowerBound:
			if score >= beta {
				return score
			}
		case TTUpperBound:
			if score <= alpha {
				return score
			}
		}
	}

	inCheck := s.pos.InCheck()

	var standPat int
	if !inCheck {
		standPat = Evaluate(s.pos)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		if standPat+QueenValue < alpha {
			return alpha
		}
	}

	var moves *board.MoveList
	if inCheck {
		moves = s.pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			return -MateScore + ply
		}
	} else {
		moves = s.pos.GenerateCaptures()
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if captured := s.pos.PieceAt(move.To()); captured != board.NoPiece {
				captureValue = board.PieceValue[captured.Type()]
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			continue
		}

		score := -s.quiescence(ply+1, -beta, -alpha)

		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// isDraw checks for draw by repetition, the 50-move rule, or
// insufficient material.
func (s *Searcher) isDraw() bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}
	return s.pos.IsRepetition(s.rootIndex)
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
