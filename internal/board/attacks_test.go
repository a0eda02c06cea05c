package board

import "testing"

func TestPawnAttacks(t *testing.T) {
	if PawnAttacks(E4, White) != SquareBB(D5)|SquareBB(F5) {
		t.Error("white pawn attacks from e4 wrong")
	}
	if PawnAttacks(E4, Black) != SquareBB(D3)|SquareBB(F3) {
		t.Error("black pawn attacks from e4 wrong")
	}
	if PawnAttacks(A2, White) != SquareBB(B3) {
		t.Error("edge pawn attacks must not wrap to file h")
	}
	if PawnAttacks(H7, Black) != SquareBB(G6) {
		t.Error("edge pawn attacks must not wrap to file a")
	}
}

func TestKnightAttacks(t *testing.T) {
	if got := KnightAttacks(A1); got != SquareBB(B3)|SquareBB(C2) {
		t.Errorf("knight attacks from a1 = \n%s", got)
	}
	if KnightAttacks(D4).PopCount() != 8 {
		t.Error("knight in the middle should attack 8 squares")
	}
}

func TestKingAttacks(t *testing.T) {
	if KingAttacks(A1).PopCount() != 3 {
		t.Error("king in the corner should attack 3 squares")
	}
	if KingAttacks(E4).PopCount() != 8 {
		t.Error("king in the middle should attack 8 squares")
	}
}

func TestAttackersTo(t *testing.T) {
	// A white knight, the white king, and a black rook all bear on e4.
	pos, err := ParseFEN("7k/8/8/4r3/8/4K3/5N2/8 w - - 0 1")
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	attackers := pos.AttackersTo(E4, pos.AllOccupied)
	want := SquareBB(E5) | SquareBB(E3) | SquareBB(F2)
	if attackers != want {
		t.Errorf("AttackersTo(e4) = \n%swant\n%s", attackers, want)
	}

	white := pos.AttackersByColor(E4, White, pos.AllOccupied)
	if white != SquareBB(E3)|SquareBB(F2) {
		t.Errorf("white attackers of e4 = \n%s", white)
	}
}

func TestAligned(t *testing.T) {
	if !Aligned(A1, D4, H8) {
		t.Error("a1-d4-h8 should be aligned on the long diagonal")
	}
	if !Aligned(E1, E4, E8) {
		t.Error("e1-e4-e8 should be aligned on the e-file")
	}
	if Aligned(A1, B3, C5) {
		t.Error("a1-b3-c5 are not collinear")
	}
}
