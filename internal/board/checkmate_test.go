package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Test position: Back rank mate - already checkmate
	// White: Ka1, Ra8
	// Black: Kh8, pawns on g7 and h7 blocking escape
	// Black is already in checkmate (Black to move)
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)

	pos.UpdateCheckers()

	t.Log("Checkers bitboard:", pos.Checkers)
	t.Log("InCheck:", pos.InCheck())

	// List all legal moves for black
	blackMoves := pos.GenerateLegalMoves()
	t.Log("Black legal moves:", blackMoves.Len())
	for i := 0; i < blackMoves.Len(); i++ {
		t.Log("  Move:", blackMoves.Get(i))
	}

	t.Log("HasLegalMoves:", pos.HasLegalMoves())
	t.Log("IsCheckmate:", pos.IsCheckmate())
	t.Log("IsStalemate:", pos.IsStalemate())

	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if !pos.GameOver() {
		t.Error("Checkmate position should report game over")
	}
}

func TestStalemateAndInsufficientMaterial(t *testing.T) {
	// Classic corner stalemate: black king a8, white queen c7, white king a6.
	pos, err := ParseFEN("k7/2Q5/K7/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if !pos.IsStalemate() || pos.IsCheckmate() {
		t.Error("expected stalemate")
	}
	if !pos.GameOver() {
		t.Error("stalemate should report game over")
	}

	// K+B vs K cannot checkmate.
	pos, err = ParseFEN("8/8/8/4k3/8/2B5/4K3/8 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if !pos.IsInsufficientMaterial() || !pos.IsDraw() {
		t.Error("K+B vs K should be insufficient material")
	}

	// K+R vs K can.
	pos, err = ParseFEN("8/8/8/4k3/8/2R5/4K3/8 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if pos.IsInsufficientMaterial() {
		t.Error("K+R vs K is mating material")
	}
	if pos.Material() != PieceValue[Rook] {
		t.Errorf("material balance = %d, want %d", pos.Material(), PieceValue[Rook])
	}
}

func TestNotCheckmate(t *testing.T) {
	// Test position: King CAN escape - not checkmate
	// Black king on h8, rook on g8 but king can take it
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Not checkmate position (king can capture rook):")
	t.Log(pos)

	pos.UpdateCheckers()

	t.Log("Checkers bitboard:", pos.Checkers)
	t.Log("InCheck:", pos.InCheck())

	blackMoves := pos.GenerateLegalMoves()
	t.Log("Black legal moves:", blackMoves.Len())
	for i := 0; i < blackMoves.Len(); i++ {
		t.Log("  Move:", blackMoves.Get(i))
	}

	t.Log("IsCheckmate:", pos.IsCheckmate())

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
}
