package board

// Piece-square tables for the tapered evaluation. Tables
// are White-relative and indexed A1=0..H8=63; Black's value at a
// square is the negated White value at the rank-mirrored square.
var pawnMGPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEGPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	30, 30, 30, 30, 30, 30, 30, 30,
	20, 20, 20, 20, 20, 20, 20, 20,
	10, 10, 10, 10, 10, 10, 10, 10,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMGPST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEGPST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var mgPST = [6][64]int{pawnMGPST, knightPST, bishopPST, rookPST, queenPST, kingMGPST}
var egPST = [6][64]int{pawnEGPST, knightPST, bishopPST, rookPST, queenPST, kingEGPST}

// psqValue returns the piece-square value for (c, pt, sq), using the
// symmetric convention psq(Black, pt, sq) = -psq(White, pt,
// mirror(sq)).
func psqValue(table *[6][64]int, c Color, pt PieceType, sq Square) int {
	if c == White {
		return table[pt][sq]
	}
	return -table[pt][sq.Mirror()]
}

// pieceScoreDelta returns the (mg, eg) contribution of a single piece
// (material plus piece-square value), signed for White, used both to
// seed the incremental score and to verify it from scratch.
func pieceScoreDelta(c Color, pt PieceType, sq Square) (mg, eg int) {
	sign := 1
	if c == Black {
		sign = -1
	}
	mg = sign*PieceValue[pt] + psqValue(&mgPST, c, pt, sq)
	eg = sign*PieceValue[pt] + psqValue(&egPST, c, pt, sq)
	return
}

// MGPST and EGPST expose the live midgame/endgame piece-square tables,
// indexed [PieceType][Square] White-relative. Used by the UCI debug
// "dump" command to snapshot the current tuning.
func MGPST() [6][64]int { return mgPST }
func EGPST() [6][64]int { return egPST }

// SetPSQT replaces the live piece-square tables, used by the UCI debug
// "load" command to restore a persisted tuning snapshot. The
// MGScore/EGScore of positions that already exist are not recomputed;
// pieces placed or moved afterwards are scored with the new tables.
func SetPSQT(mg, eg [6][64]int) {
	mgPST = mg
	egPST = eg
}

// SetPieceValues replaces the live material values (index by
// PieceType, King/NoPieceType entries are ignored by the evaluator).
func SetPieceValues(v [7]int) {
	PieceValue = v
}

// ComputeScore recomputes the tapered (MG, EG) score from scratch,
// White-positive. Must agree with the incrementally maintained
// MGScore/EGScore at all times.
func (p *Position) ComputeScore() (mg, eg int) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				m, e := pieceScoreDelta(c, pt, sq)
				mg += m
				eg += e
			}
		}
	}
	return
}
