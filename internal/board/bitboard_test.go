package board

import "testing"

func TestBitboardBasics(t *testing.T) {
	var b Bitboard
	b = b.Set(E4).Set(A1).Set(H8)

	if b.PopCount() != 3 {
		t.Errorf("PopCount = %d, want 3", b.PopCount())
	}
	if !b.IsSet(E4) || b.IsSet(E5) {
		t.Error("IsSet wrong after Set")
	}
	if b.LSB() != A1 || b.MSB() != H8 {
		t.Errorf("LSB/MSB = %s/%s, want a1/h8", b.LSB(), b.MSB())
	}

	b = b.Clear(A1)
	if b.IsSet(A1) || b.PopCount() != 2 {
		t.Error("Clear did not remove the bit")
	}

	if Empty.LSB() != NoSquare || Empty.MSB() != NoSquare {
		t.Error("LSB/MSB of empty board should be NoSquare")
	}

	b = b.Toggle(D4)
	if !b.IsSet(D4) {
		t.Error("Toggle should set a clear bit")
	}
	if b.Toggle(D4).IsSet(D4) {
		t.Error("Toggle should clear a set bit")
	}

	if Empty.More() || !Empty.Empty() {
		t.Error("empty bitboard predicates wrong")
	}
	if !b.More() || b.Empty() {
		t.Error("non-empty bitboard predicates wrong")
	}
}

func TestBitboardPopLSBAscending(t *testing.T) {
	b := SquareBB(C3) | SquareBB(A1) | SquareBB(H8) | SquareBB(E4)
	want := []Square{A1, C3, E4, H8}

	var got []Square
	for b != 0 {
		got = append(got, b.PopLSB())
	}
	if len(got) != len(want) {
		t.Fatalf("popped %d squares, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBitboardSquaresAndForEach(t *testing.T) {
	b := SquareBB(B2) | SquareBB(G7)

	sqs := b.Squares()
	if len(sqs) != 2 || sqs[0] != B2 || sqs[1] != G7 {
		t.Errorf("Squares() = %v", sqs)
	}

	count := 0
	b.ForEach(func(sq Square) { count++ })
	if count != 2 {
		t.Errorf("ForEach visited %d squares, want 2", count)
	}
}

func TestBitboardShiftsRespectEdges(t *testing.T) {
	// A file-h square must not wrap onto file a when shifted east.
	if SquareBB(H4).East() != 0 {
		t.Error("East from h4 should fall off the board")
	}
	if SquareBB(A4).West() != 0 {
		t.Error("West from a4 should fall off the board")
	}
	if SquareBB(H4).NorthEast() != 0 || SquareBB(H4).SouthEast() != 0 {
		t.Error("diagonal east shifts from file h should fall off the board")
	}
	if SquareBB(A4).NorthWest() != 0 || SquareBB(A4).SouthWest() != 0 {
		t.Error("diagonal west shifts from file a should fall off the board")
	}

	if SquareBB(E4).North() != SquareBB(E5) {
		t.Error("North shift wrong")
	}
	if SquareBB(E4).South() != SquareBB(E3) {
		t.Error("South shift wrong")
	}
	if SquareBB(E4).NorthEast() != SquareBB(F5) {
		t.Error("NorthEast shift wrong")
	}
}
