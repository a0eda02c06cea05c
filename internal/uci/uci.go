// Package uci implements the Universal Chess Interface protocol
// front-end: a line-oriented stdio parser that owns nothing about
// search or evaluation beyond forwarding parsed commands to an
// *engine.Engine.
package uci

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hailam/chessplay-core/internal/board"
	"github.com/hailam/chessplay-core/internal/engine"
	"github.com/hailam/chessplay-core/internal/storage"
)

// logger writes informational and warning lines to stderr only —
// stdout is reserved for the UCI wire protocol.
var logger = log.New(os.Stderr, "", 0)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	hashMB       int
	moveOverhead time.Duration
	chess960     bool

	// searching is the only state shared with the worker goroutine
	// besides the engine's own abort flag; the worker owns a Position
	// clone handed over at spawn time.
	searching  atomic.Bool
	searchDone chan struct{}

	store *storage.Storage
}

// New creates a new UCI protocol handler wrapping eng.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:       eng,
		position:     board.NewPosition(),
		hashMB:       16,
		moveOverhead: 30 * time.Millisecond,
	}
}

// Run starts the UCI main loop, reading commands from stdin until EOF
// or "quit".
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		case "eval":
			fmt.Printf("eval %s\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
		case "dump":
			u.handleDump(args)
		case "load":
			u.handleLoad(args)
		default:
			logger.Printf("info string unknown command: %s", cmd)
		}
	}
}

// handleUCI responds to the "uci" command with engine identity and
// the option registry.
func (u *UCI) handleUCI() {
	fmt.Println("id name ChessPlay")
	fmt.Println("id author ChessPlay Team")
	fmt.Println()
	fmt.Printf("option name Hash type spin default 16 min 1 max %d\n", engine.MaxHashMB)
	fmt.Println("option name MoveOverhead type spin default 30 min 0 max 5000")
	fmt.Println("option name UCI_Chess960 type check default false")
	fmt.Println("option name Clear Hash type button")
	fmt.Println("uciok")
}

// handleNewGame clears the TT, move-ordering heuristics, and
// position.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position. Formats:
//   - position startpos [moves m1 m2 ...]
//   - position fen <FEN> [moves m1 m2 ...]
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}
		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			logger.Printf("info string invalid FEN, falling back to startpos: %v", err)
			u.position = board.NewPosition()
			return
		}
		u.position = pos
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	default:
		return
	}

	if moveStart >= len(args) {
		return
	}
	for _, moveStr := range args[moveStart:] {
		move := u.parseMove(moveStr)
		if move == board.NoMove {
			logger.Printf("info string illegal move in position list, stopping: %s", moveStr)
			return
		}
		u.position.MakeMove(move)
	}
}

// parseMove converts a UCI long-algebraic move string (e2e4, e7e8q, or
// king-captures-rook Chess960 castling) to the matching legal move.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 {
		return board.NoMove
	}

	fromFile := int(moveStr[0] - 'a')
	fromRank := int(moveStr[1] - '1')
	toFile := int(moveStr[2] - 'a')
	toRank := int(moveStr[3] - '1')
	if fromFile < 0 || fromFile > 7 || fromRank < 0 || fromRank > 7 ||
		toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return board.NoMove
	}

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	var promo board.PieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from {
			continue
		}
		// Standard castling notation (e1g1) decodes to the
		// king-captures-rook move whose rook departs from the
		// matching side; Chess960 notation already names the rook
		// square directly, so a straight To() match handles it.
		if m.IsCastling() && m.To() != to {
			if board.CastlingKingTo(m.From(), m.To()) == to {
				return m
			}
			continue
		}
		if m.To() != to {
			continue
		}
		if promo != 0 {
			if m.IsPromotion() && m.Promotion() == promo {
				return m
			}
		} else if !m.IsPromotion() {
			return m
		}
	}
	return board.NoMove
}

// GoOptions holds parsed "go" command arguments.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Mate      int
	Infinite  bool
	Ponder    bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Perft     int
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	if opts.Perft > 0 {
		u.runPerft(opts.Perft)
		return
	}

	limits := u.buildLimits(opts)

	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	u.searching.Store(true)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	chess960 := u.chess960

	go func() {
		defer close(u.searchDone)
		defer u.searching.Store(false)

		bestMove := u.engine.SearchWithUCILimits(pos, limits)

		if bestMove == board.NoMove {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", bestMove.UCIString(chess960))
	}()
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "mate":
			if i+1 < len(args) {
				opts.Mate, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "ponder":
			opts.Ponder = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "perft":
			if i+1 < len(args) {
				opts.Perft, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// buildLimits converts GoOptions to engine.UCILimits. "ponder" is
// accepted and otherwise a no-op.
func (u *UCI) buildLimits(opts GoOptions) engine.UCILimits {
	limits := engine.UCILimits{
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		MoveTime:  opts.MoveTime,
		Mate:      opts.Mate,
		Infinite:  opts.Infinite,
		Ponder:    opts.Ponder,
		MovesToGo: opts.MovesToGo,
	}
	limits.Time[board.White] = opts.WTime
	limits.Time[board.Black] = opts.BTime
	limits.Inc[board.White] = opts.WInc
	limits.Inc[board.Black] = opts.BInc
	return limits
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d seldepth %d", info.Depth, info.SelDepth)
	fmt.Fprintf(&b, " score %s", engine.ScoreToString(info.Score))
	fmt.Fprintf(&b, " nodes %d time %d", info.Nodes, info.Elapsed.Milliseconds())
	if info.Elapsed > 0 {
		fmt.Fprintf(&b, " nps %d", info.NPS)
	}
	if hf := u.engine.HashFull(); hf > 0 {
		fmt.Fprintf(&b, " hashfull %d", hf)
	}
	if len(info.PV) > 0 {
		b.WriteString(" pv")
		for _, m := range info.PV {
			b.WriteByte(' ')
			b.WriteString(m.UCIString(u.chess960))
		}
	}
	fmt.Println(b.String())
}

// handleStop aborts the current search and waits for "bestmove".
func (u *UCI) handleStop() {
	if u.searching.Load() {
		u.engine.Stop()
		<-u.searchDone
	}
}

// handleQuit stops any active search, closes storage, and exits
// with status 0.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.store != nil {
		u.store.Close()
	}
	os.Exit(0)
}

// handleSetOption processes "setoption name <name> value <value>".
// Invalid options are logged and ignored.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb <= 0 {
			logger.Printf("info string invalid Hash value: %q", value)
			return
		}
		u.engine.SetHashSize(mb)
		if mb > engine.MaxHashMB {
			mb = engine.MaxHashMB
		}
		u.hashMB = mb
	case "moveoverhead":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			logger.Printf("info string invalid MoveOverhead value: %q", value)
			return
		}
		u.moveOverhead = time.Duration(ms) * time.Millisecond
		u.engine.SetMoveOverhead(u.moveOverhead)
	case "uci_chess960", "chess960":
		u.chess960 = strings.ToLower(value) == "true"
		u.engine.SetChess960(u.chess960)
	case "clear hash":
		u.engine.Clear()
	default:
		logger.Printf("info string unknown option: %s", name)
	}
}

// ensureStorage lazily opens the tuning-snapshot store.
func (u *UCI) ensureStorage() *storage.Storage {
	if u.store != nil {
		return u.store
	}
	store, err := storage.NewStorage()
	if err != nil {
		logger.Printf("info string failed to open tuning storage: %v", err)
		return nil
	}
	u.store = store
	return store
}

// handleDump writes the current tuning (hash size, move overhead,
// chess960, piece values, piece-square tables) to a named snapshot.
func (u *UCI) handleDump(args []string) {
	if len(args) == 0 {
		logger.Printf("info string dump requires a snapshot name")
		return
	}
	store := u.ensureStorage()
	if store == nil {
		return
	}
	snap := storage.CurrentSnapshot(u.hashMB, int(u.moveOverhead.Milliseconds()), u.chess960)
	if err := store.DumpSnapshot(args[0], snap); err != nil {
		logger.Printf("info string dump failed: %v", err)
		return
	}
	fmt.Printf("info string dumped tuning snapshot %q\n", args[0])
}

// handleLoad restores a named tuning snapshot and applies it to the
// live engine.
func (u *UCI) handleLoad(args []string) {
	if len(args) == 0 {
		logger.Printf("info string load requires a snapshot name")
		return
	}
	store := u.ensureStorage()
	if store == nil {
		return
	}
	snap, err := store.LoadSnapshot(args[0])
	if err != nil {
		logger.Printf("info string load failed: %v", err)
		return
	}
	snap.Apply()
	u.hashMB = snap.HashSizeMB
	u.engine.SetHashSize(snap.HashSizeMB)
	u.moveOverhead = time.Duration(snap.MoveOverhead) * time.Millisecond
	u.engine.SetMoveOverhead(u.moveOverhead)
	u.chess960 = snap.Chess960
	u.engine.SetChess960(u.chess960)
	fmt.Printf("info string loaded tuning snapshot %q\n", args[0])
}

// handlePerft runs a perft node count from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	u.runPerft(depth)
}

func (u *UCI) runPerft(depth int) {
	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
