package board

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures generates all capture moves.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return p.filterLegalMoves(ml)
}

// generateAllMoves generates all pseudo-legal moves.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	// Pawn moves
	p.generatePawnMoves(ml, us, enemies, occupied)

	// Knight moves
	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := KnightAttacks(from) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Bishop moves
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := BishopAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Rook moves
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := RookAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Queen moves
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := QueenAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// King moves
	p.generateKingMoves(ml, us)

	// Castling
	p.generateCastlingMoves(ml, us)
}

// generatePawnMoves generates all pawn moves.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Single pushes (non-promotion)
	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewMove(from, to))
	}

	// Double pushes
	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ml.Add(NewMove(from, to))
	}

	// Captures (non-promotion)
	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewMove(from, to))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewMove(from, to))
	}

	// Promotions
	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(ml, from, to)
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(ml, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(ml, from, to)
	}

	// En passant
	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateKingMoves generates king moves (non-castling).
func (p *Position) generateKingMoves(ml *MoveList, us Color) {
	from := p.KingSquare[us]
	attacks := KingAttacks(from) & ^p.Occupied[us]

	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

// generateCastlingMoves generates castling moves. Chess960-ready: the
// rook's home square comes from CastlingRookFrom rather than an
// assumed board corner. The clearance check covers the union of the
// king's and rook's travel squares; the attack check covers the
// king's path (origin through destination).
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	ksq := p.KingSquare[us]

	for _, kingSide := range [2]bool{true, false} {
		if !p.CastlingRights.CanCastle(us, kingSide) {
			continue
		}
		rookFrom, ok := p.CastlingRookOrigin(us, kingSide)
		if !ok {
			continue
		}
		// A rook that currently shields its own king from a slider
		// cannot leave the line to castle: the king's travel squares
		// may all be safe while the vacated rook square is not.
		if p.KingBlockers[us]&SquareBB(rookFrom) != 0 {
			continue
		}
		kingTo := CastlingKingTo(ksq, rookFrom)
		rookTo := CastlingRookTo(ksq, rookFrom)

		occWithoutMovers := p.AllOccupied &^ SquareBB(ksq) &^ SquareBB(rookFrom)
		clearance := (Between(ksq, kingTo) | SquareBB(kingTo) | Between(rookFrom, rookTo) | SquareBB(rookTo)) &^ SquareBB(ksq) &^ SquareBB(rookFrom)
		if clearance&occWithoutMovers != 0 {
			continue
		}

		kingPath := Between(ksq, kingTo) | SquareBB(kingTo) | SquareBB(ksq)
		attacked := false
		bb := kingPath
		for bb != 0 {
			sq := bb.PopLSB()
			if p.IsSquareAttacked(sq, them) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		ml.Add(NewCastling(ksq, rookFrom))
	}
}

// generateCaptures generates capture moves only.
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	// Pawn captures
	pawns := p.Pieces[us][Pawn]
	var attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Non-promotion captures
	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewMove(from, to))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewMove(from, to))
	}

	// Promotion captures
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(ml, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(ml, from, to)
	}

	// Pawn push promotions (technically not captures but important for quiescence)
	empty := ^occupied
	var push1 Bitboard
	if us == White {
		push1 = pawns.North() & empty & Rank8
	} else {
		push1 = pawns.South() & empty & Rank1
	}
	for push1 != 0 {
		to := push1.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(ml, from, to)
	}

	// En passant
	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}

	// Knight captures
	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := KnightAttacks(from) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Bishop captures
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := BishopAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Rook captures
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := RookAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Queen captures
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := QueenAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// King captures
	from := p.KingSquare[us]
	attacks := KingAttacks(from) & enemies
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

// filterLegalMoves filters out illegal moves (those that leave king in check).
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}

	return result
}

// IsLegal returns true if the move is legal (doesn't leave the mover's
// king in check). O(1): uses the precomputed Checkers/KingBlockers/
// Pinners state rather than make-unmake-and-rescan.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if m.IsEnPassant() {
		return p.isLegalEnPassant(m)
	}

	// King moves: temporarily remove the king and check the destination.
	if from == ksq {
		if m.IsCastling() {
			return true // Clearance/attacked-square checks done at generation.
		}
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}

	// Double check: only king moves can be legal.
	if p.Checkers != 0 && p.Checkers&(p.Checkers-1) != 0 {
		return false
	}

	// Single check: the move must capture the checker or interpose on
	// the line between checker and king.
	if p.Checkers != 0 {
		checkerSq := p.Checkers.LSB()
		target := SquareBB(m.To())
		if target&(SquareBB(checkerSq)|Between(checkerSq, ksq)) == 0 {
			return false
		}
	}

	// Pin filter: a pinned piece may only move along the pin ray.
	if p.KingBlockers[us]&SquareBB(from) != 0 && !Aligned(from, m.To(), ksq) {
		return false
	}

	return true
}

// isLegalEnPassant handles the one case KingBlockers/Pinners can't
// express in O(1): an en passant capture removes two pawns from the
// same rank, which can expose a horizontal pin that a single-piece
// blocker analysis misses.
func (p *Position) isLegalEnPassant(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	ksq := p.KingSquare[us]

	var capturedSq Square
	if us == White {
		capturedSq = to - 8
	} else {
		capturedSq = to + 8
	}

	if p.Checkers != 0 {
		if p.Checkers&(p.Checkers-1) != 0 {
			return false
		}
		checkerSq := p.Checkers.LSB()
		if checkerSq != capturedSq && SquareBB(to)&Between(checkerSq, ksq) == 0 {
			return false
		}
	}

	occ := (p.AllOccupied &^ SquareBB(from) &^ SquareBB(capturedSq)) | SquareBB(to)
	attackers := (RookAttacks(ksq, occ) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])) |
		(BishopAttacks(ksq, occ) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen]))
	return attackers == 0
}

// MakeMove applies a move to the position and returns undo information.
// Castling is encoded king-captures-rook (m.To() is the rook's origin
// square), handled by lifting both pieces and resetting them on their
// destinations so the general capture/movePiece path never has to
// special-case "to" holding a friendly piece.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
		Board:          p.board,
		MGScore:        p.MGScore,
		EGScore:        p.EGScore,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece {
		return undo
	}
	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	switch {
	case m.IsCastling():
		rookFrom := to
		kingTo := CastlingKingTo(from, rookFrom)
		rookTo := CastlingRookTo(from, rookFrom)

		p.Hash ^= zobristPiece[us][King][from]
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.removePiece(from)
		p.removePiece(rookFrom)
		p.setPiece(NewPiece(King, us), kingTo)
		p.setPiece(NewPiece(Rook, us), rookTo)
		p.Hash ^= zobristPiece[us][King][kingTo]
		p.Hash ^= zobristPiece[us][Rook][rookTo]

	case m.IsEnPassant():
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]

		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]

	default:
		if captured := p.PieceAt(to); captured != NoPiece {
			undo.CapturedPiece = captured
			p.removePiece(to)
			p.Hash ^= zobristPiece[them][captured.Type()][to]
		}

		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]

		if m.IsPromotion() {
			promoPt := m.Promotion()
			mgFrom, egFrom := pieceScoreDelta(us, Pawn, to)
			mgTo, egTo := pieceScoreDelta(us, promoPt, to)
			p.Pieces[us][Pawn] &^= SquareBB(to)
			p.Pieces[us][promoPt] |= SquareBB(to)
			p.board[to] = NewPiece(promoPt, us)
			p.MGScore += mgTo - mgFrom
			p.EGScore += egTo - egFrom
			p.Hash ^= zobristPiece[us][Pawn][to]
			p.Hash ^= zobristPiece[us][promoPt][to]
		}
	}

	// Castling-rights clearing via the per-square mask (Chess960-ready):
	// moving from, or capturing on, a king/rook home square clears the
	// right(s) tied to that square.
	p.CastlingRights &^= p.castlingMask[from] | p.castlingMask[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && !m.IsCastling() && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		// Only record the EP target if an enemy pawn could actually
		// capture onto it; a dead EP square entering the hash would
		// split the keys of two otherwise identical positions.
		var epAttackers Bitboard
		if us == White {
			epAttackers = (SquareBB(epSquare).NorthWest() | SquareBB(epSquare).NorthEast()) & p.Pieces[them][Pawn]
		} else {
			epAttackers = (SquareBB(epSquare).SouthWest() | SquareBB(epSquare).SouthEast()) & p.Pieces[them][Pawn]
		}
		if epAttackers != 0 {
			p.EnPassant = epSquare
			p.Hash ^= zobristEnPassant[epSquare.File()]
		}
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.refreshDerivedState()
	p.History = append(p.History, p.Hash)

	return undo
}

// UnmakeMove restores the position to the exact state it held before
// the given move, via the full-state snapshot carried in undo.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	if !undo.Valid {
		return
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	p.board = undo.Board
	p.MGScore = undo.MGScore
	p.EGScore = undo.EGScore

	them := p.SideToMove
	us := them.Other()
	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	if len(p.History) > 0 {
		p.History = p.History[:len(p.History)-1]
	}

	p.updateCheckBlockersAndPinners(White)
	p.updateCheckBlockersAndPinners(Black)
	p.updateCheckSquares()
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw (stalemate, 50-move, insufficient material).
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	// If there are any pawns, rooks, or queens, sufficient material
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	// Count minor pieces
	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	// K vs K
	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}

	// K+minor vs K
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}

	return false
}
