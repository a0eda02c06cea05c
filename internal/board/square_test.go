package board

import "testing"

func TestSquareFileRank(t *testing.T) {
	if A1.File() != 0 || A1.Rank() != 0 {
		t.Error("a1 should be file 0, rank 0")
	}
	if H8.File() != 7 || H8.Rank() != 7 {
		t.Error("h8 should be file 7, rank 7")
	}
	if E4.String() != "e4" {
		t.Errorf("E4.String() = %q", E4.String())
	}
	if NoSquare.String() != "-" {
		t.Errorf("NoSquare.String() = %q", NoSquare.String())
	}
}

func TestParseSquare(t *testing.T) {
	sq, err := ParseSquare("e4")
	if err != nil || sq != E4 {
		t.Errorf("ParseSquare(e4) = %s, %v", sq, err)
	}
	for _, s := range []string{"", "e", "e9", "i4", "e44"} {
		if _, err := ParseSquare(s); err == nil {
			t.Errorf("ParseSquare(%q) unexpectedly succeeded", s)
		}
	}
}

func TestSquareMirror(t *testing.T) {
	if A1.Mirror() != A8 || E4.Mirror() != E5 || H8.Mirror() != H1 {
		t.Error("vertical mirror wrong")
	}
	for sq := A1; sq <= H8; sq++ {
		if sq.Mirror().Mirror() != sq {
			t.Fatalf("mirror is not an involution at %s", sq)
		}
	}
}

func TestRelativeRank(t *testing.T) {
	if E2.RelativeRank(White) != 1 || E2.RelativeRank(Black) != 6 {
		t.Error("relative rank of e2 wrong")
	}
	if E7.RelativeRank(Black) != 1 {
		t.Error("relative rank of e7 for black should be 1")
	}
}

func TestColorOther(t *testing.T) {
	if White.Other() != Black || Black.Other() != White {
		t.Error("Other is not an involution")
	}
}

func TestPieceEncoding(t *testing.T) {
	for _, c := range [2]Color{White, Black} {
		for pt := Pawn; pt <= King; pt++ {
			p := NewPiece(pt, c)
			if p.Type() != pt || p.Color() != c {
				t.Fatalf("piece round trip failed for %s %s", c, pt)
			}
		}
	}
	if PieceFromChar('K') != WhiteKing || PieceFromChar('q') != BlackQueen {
		t.Error("PieceFromChar wrong")
	}
	if PieceFromChar('x') != NoPiece {
		t.Error("PieceFromChar should reject unknown characters")
	}
	if WhiteKnight.String() != "N" || BlackPawn.String() != "p" {
		t.Error("piece FEN characters wrong")
	}
}
