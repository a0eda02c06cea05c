package uci

import (
	"strings"
	"testing"
	"time"

	"github.com/hailam/chessplay-core/internal/board"
	"github.com/hailam/chessplay-core/internal/engine"
)

func newTestUCI() *UCI {
	return New(engine.NewEngine(16))
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos", "moves", "e2e4", "e7e5", "g1f3"})

	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := u.position.ToFEN(); got != want {
		t.Errorf("position after moves = %q, want %q", got, want)
	}
}

func TestHandlePositionFEN(t *testing.T) {
	u := newTestUCI()
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	u.handlePosition(append([]string{"fen"}, splitFields(fen)...))

	if got := u.position.ToFEN(); got != fen {
		t.Errorf("position = %q, want %q", got, fen)
	}
}

func TestHandlePositionStopsAtIllegalMove(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos", "moves", "e2e4", "e2e4", "d7d5"})

	// The second e2e4 is illegal: the position must reflect only the
	// moves applied before it.
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	if got := u.position.ToFEN(); got != want {
		t.Errorf("position after illegal move list = %q, want %q", got, want)
	}
}

func TestHandlePositionInvalidFENFallsBack(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"fen", "not", "a", "fen", "at", "all"})

	if got := u.position.ToFEN(); got != board.StartFEN {
		t.Errorf("expected fallback to the starting position, got %q", got)
	}
}

func TestParseMoveCastlingNotation(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(append([]string{"fen"}, splitFields("5k2/8/8/8/8/8/8/4K2R w K - 0 1")...))

	m := u.parseMove("e1g1")
	if m == board.NoMove || !m.IsCastling() || m.To() != board.H1 {
		t.Errorf("parseMove(e1g1) = %s, want castling encoded as Ke1xRh1", m)
	}

	if u.parseMove("e1h1") != m {
		t.Error("Chess960 notation e1h1 should decode to the same castling move")
	}
}

func TestParseMoveRejectsIllegal(t *testing.T) {
	u := newTestUCI()
	if m := u.parseMove("e2e5"); m != board.NoMove {
		t.Errorf("parseMove(e2e5) = %s, want NoMove", m)
	}
	if m := u.parseMove("z1a1"); m != board.NoMove {
		t.Errorf("parseMove(z1a1) = %s, want NoMove", m)
	}
}

func TestParseGoOptions(t *testing.T) {
	u := newTestUCI()
	opts := u.parseGoOptions(splitFields("wtime 60000 btime 55000 winc 1000 binc 900 movestogo 20 depth 12 nodes 5000 mate 3 ponder"))

	if opts.WTime != 60*time.Second || opts.BTime != 55*time.Second {
		t.Errorf("clock parsing wrong: %+v", opts)
	}
	if opts.WInc != time.Second || opts.BInc != 900*time.Millisecond {
		t.Errorf("increment parsing wrong: %+v", opts)
	}
	if opts.MovesToGo != 20 || opts.Depth != 12 || opts.Nodes != 5000 || opts.Mate != 3 || !opts.Ponder {
		t.Errorf("go flags parsing wrong: %+v", opts)
	}

	limits := u.buildLimits(opts)
	if limits.Time[board.White] != opts.WTime || limits.Inc[board.Black] != opts.BInc {
		t.Errorf("buildLimits mapping wrong: %+v", limits)
	}
}

func TestHandleSetOption(t *testing.T) {
	u := newTestUCI()

	u.handleSetOption(splitFields("name Hash value 64"))
	if u.hashMB != 64 {
		t.Errorf("hashMB = %d, want 64", u.hashMB)
	}

	u.handleSetOption(splitFields("name MoveOverhead value 100"))
	if u.moveOverhead != 100*time.Millisecond {
		t.Errorf("moveOverhead = %v, want 100ms", u.moveOverhead)
	}

	u.handleSetOption(splitFields("name UCI_Chess960 value true"))
	if !u.chess960 {
		t.Error("chess960 not enabled")
	}

	// Invalid values are logged and ignored.
	u.handleSetOption(splitFields("name Hash value notanumber"))
	if u.hashMB != 64 {
		t.Errorf("invalid Hash value changed state: %d", u.hashMB)
	}

	u.handleSetOption(splitFields("name NoSuchOption value 1"))
}

func splitFields(s string) []string {
	return strings.Fields(s)
}
