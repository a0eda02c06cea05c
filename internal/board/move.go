package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: flags (0=normal, 1=promotion, 2=en passant, 3=castling)
//
// A castling move encodes the king's origin as From and the castling
// rook's origin square as To ("king captures own rook"). This is
// Chess960-ready: king and rook destinations are derived separately
// (CastlingKingTo/CastlingRookTo) rather than stored in the move, so
// the UCI front-end can present either king-to-king-target (standard)
// or king-to-rook (Chess960) notation from the same encoding.
type Move uint16

// Move flags
const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagEnPassant uint16 = 2 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	// promo: Knight=0, Bishop=1, Rook=2, Queen=3
	promoIdx := promo - Knight
	return Move(from) | Move(to)<<6 | Move(promoIdx)<<12 | Move(FlagPromotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagEnPassant)
}

// NewCastling creates a castling move. from is the king's origin, to
// is the castling rook's origin square (king-captures-rook encoding).
func NewCastling(from, rookFrom Square) Move {
	return Move(from) | Move(rookFrom)<<6 | Move(FlagCastling)
}

// CastlingKingTo returns the king's destination square for a castling
// move, given the king's origin and the rook's origin (same rank).
// Kingside (rook to the right of the king) lands the king on the
// g-file; queenside lands it on the c-file, per Chess960 convention.
func CastlingKingTo(kingFrom, rookFrom Square) Square {
	rank := kingFrom.Rank()
	if rookFrom.File() > kingFrom.File() {
		return NewSquare(6, rank)
	}
	return NewSquare(2, rank)
}

// CastlingRookTo returns the rook's destination square for a castling
// move (f-file kingside, d-file queenside).
func CastlingRookTo(kingFrom, rookFrom Square) Square {
	rank := kingFrom.Rank()
	if rookFrom.File() > kingFrom.File() {
		return NewSquare(5, rank)
	}
	return NewSquare(3, rank)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() uint16 {
	return uint16(m) & 0xC000
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCapture returns true if this move captures a piece. Castling is
// never a capture even though To() holds the rook's own square.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsCastling() {
		return false
	}
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q"),
// using standard king-to-king-target castling notation. Use
// UCIString for Chess960 king-to-rook notation.
func (m Move) String() string {
	return m.UCIString(false)
}

// UCIString returns the UCI-wire form of the move. When chess960 is
// true, castling is emitted king-captures-rook; otherwise
// king-to-king-target.
func (m Move) UCIString(chess960 bool) string {
	if m == NoMove {
		return "0000"
	}

	from := m.From()
	to := m.To()
	if m.IsCastling() && !chess960 {
		to = CastlingKingTo(from, to)
	}

	s := from.String() + to.String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	// Check for promotion
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	// Detect special moves. `to` here is the wire-form destination
	// (king-target for standard notation, or the rook's own square
	// for Chess960 king-captures-rook notation); both are normalized
	// to the internal king-captures-rook encoding below.
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	pt := piece.Type()
	us := piece.Color()

	// Chess960 king-captures-rook notation: destination holds the
	// mover's own rook.
	if pt == King && pos.PieceAt(to) == NewPiece(Rook, us) {
		return NewCastling(from, to), nil
	}

	// Standard king-to-king-target notation.
	if pt == King && to.Rank() == from.Rank() && abs(to.File()-from.File()) == 2 {
		kingSide := to.File() > from.File()
		if rookFrom, ok := pos.CastlingRookOrigin(us, kingSide); ok {
			return NewCastling(from, rookFrom), nil
		}
	}

	// En passant
	if pt == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move. Make/Unmake use a
// full-snapshot-restore strategy for the bitboard/score/board state
// (cheap: a handful of struct copies) rather than hand-reversing each
// move kind, which keeps castling, promotion, and en passant unmakes
// trivially correct.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
	KingSquare     [2]Square       // King positions before move
	Pieces         [2][6]Bitboard  // Full piece bitboards for reliable restoration
	Occupied       [2]Bitboard     // Occupancy bitboards
	AllOccupied    Bitboard        // All pieces
	Board          [64]Piece       // Piece-on-square array before move
	MGScore        int             // Incremental score before move
	EGScore        int
	Valid          bool // True if move was actually applied
}
