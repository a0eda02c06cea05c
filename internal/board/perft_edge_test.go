package board

import "testing"

// TestPerftEnPassantPinDeep exercises the classic en-passant
// horizontal-pin perft position.
// FEN: 3k4/3p4/8/K1P4r/8/8/8/8 b - - 0 1
func TestPerftEnPassantPinDeep(t *testing.T) {
	pos, err := ParseFEN("3k4/3p4/8/K1P4r/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 18},
		{2, 92},
		{3, 1670},
		// {4, 10138}, {5, 185429}, {6, 1134888}: enable for thorough testing
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftCastlingThroughCheck verifies that castling through an
// attacked square is excluded from generation.
// FEN: 5k2/8/8/8/8/8/8/4K2R w K - 0 1
func TestPerftCastlingThroughCheck(t *testing.T) {
	pos, err := ParseFEN("5k2/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 15},
		{2, 66},
		{3, 1198},
		// {4, 7623}, {5, 123791}, {6, 661072}: enable for thorough testing
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPromotionOutOfCheck verifies that a promotion can both
// capture the checking piece and resolve a check.
// FEN: 2K2r2/4P3/8/8/8/8/8/3k4 w - - 0 1
func TestPerftPromotionOutOfCheck(t *testing.T) {
	pos, err := ParseFEN("2K2r2/4P3/8/8/8/8/8/3k4 w - - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 11},
		{2, 133},
		{3, 1442},
		// {4, 19174}, {5, 266199}, {6, 3821001}: enable for thorough testing
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftChess960Castling exercises king-captures-rook castling
// move generation and make/unmake in a Chess960 start array.
// FEN: r1k1r2q/p1ppp1pp/8/8/8/8/P1PPP1PP/R1K1R2Q w KQkq - 0 1
func TestPerftChess960Castling(t *testing.T) {
	pos, err := ParseFEN("r1k1r2q/p1ppp1pp/8/8/8/8/P1PPP1PP/R1K1R2Q w KQkq - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 23},
		{2, 522},
		{3, 12333},
		// {4, 285754}, {5, 7096972}: enable for thorough testing
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestCastlingRookShieldsCheck: a castling rook that is the sole
// shield between an enemy slider and its own king cannot vacate its
// square to castle, even though every square the king traverses is
// unattacked.
func TestCastlingRookShieldsCheck(t *testing.T) {
	// Queen a1, rook b1, king e1: the b1 rook blocks the queen's
	// first-rank attack, so queenside castling would leave the king
	// in check from a1.
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/qR2K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	if pos.KingBlockers[White]&SquareBB(B1) == 0 {
		t.Fatal("b1 rook should be a king blocker")
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCastling() {
			t.Errorf("castling move %s should be illegal: the rook shields a check", m)
		}
	}

	// With the queen off the board the same castle is legal again.
	pos, err = ParseFEN("4k3/8/8/8/8/8/8/1R2K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}
	moves = pos.GenerateLegalMoves()
	found := false
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).IsCastling() {
			found = true
		}
	}
	if !found {
		t.Error("expected queenside castling to be legal without the shielded check")
	}
}

// TestChess960CastlingMoveIsKingCapturesRook verifies the internal
// move encoding before front-end UCI translation.
func TestChess960CastlingMoveIsKingCapturesRook(t *testing.T) {
	pos, err := ParseFEN("r1k1r2q/p1ppp1pp/8/8/8/8/P1PPP1PP/R1K1R2Q w KQkq - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCastling() && m.From() == C1 && m.To() == A1 {
			found = true
			if got := m.UCIString(true); got != "c1a1" {
				t.Errorf("Chess960 UCI string = %q, want c1a1", got)
			}
			if got := m.UCIString(false); got != "c1c1" {
				// The king already starts on its own queenside
				// target square in this array, so standard
				// king-to-king-target notation is a "non-move".
				t.Errorf("standard UCI string = %q, want c1c1", got)
			}
		}
	}
	if !found {
		t.Error("expected a queenside castling move encoded as Kc1xRa1")
	}
}
