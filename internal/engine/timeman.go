package engine

import (
	"time"

	"github.com/hailam/chessplay-core/internal/board"
)

// UCILimits contains the "go" command's time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Mate      int              // search for a mate in N moves (0 = not requested)
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// defaultMovesToGo is the assumed remaining-moves estimate for sudden
// death time controls (no "movestogo" given).
const defaultMovesToGo = 30

// TimeManager allocates a soft (optimum) and hard (maximum) budget
// for the current move:
//
//	total   = time[us] + inc[us]*mtg - overhead
//	optimum = 0.9 * total / mtg
//	maximum = total / 10
//
// With a fixed movetime, optimum = maximum = movetime - overhead.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init initializes the time manager for a new search. overhead is the
// "MoveOverhead" UCI option: time reserved for engine/GUI communication
// latency, subtracted from the usable budget.
func (tm *TimeManager) Init(limits UCILimits, us board.Color, overhead time.Duration) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		mt := limits.MoveTime - overhead
		if mt < 10*time.Millisecond {
			mt = 10 * time.Millisecond
		}
		tm.optimumTime = mt
		tm.maximumTime = mt
		return
	}

	if limits.Infinite || limits.Depth > 0 || limits.Nodes > 0 || limits.Mate > 0 {
		if limits.Time[us] == 0 {
			tm.optimumTime = time.Hour
			tm.maximumTime = time.Hour
			return
		}
	}

	if limits.Time[us] == 0 {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	mtg := limits.MovesToGo
	if mtg <= 0 {
		mtg = defaultMovesToGo
	}

	total := limits.Time[us] + limits.Inc[us]*time.Duration(mtg) - overhead
	if total <= 0 {
		total = time.Millisecond
	}

	tm.optimumTime = total * 9 / (10 * time.Duration(mtg))
	tm.maximumTime = total / 10

	if tm.maximumTime < tm.optimumTime {
		tm.maximumTime = tm.optimumTime
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}

	safetyMargin := limits.Time[us] * 95 / 100
	if tm.maximumTime > safetyMargin && safetyMargin > 0 {
		tm.maximumTime = safetyMargin
	}
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target (soft) time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the maximum (hard) time allowed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true once the hard budget is exhausted.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true once the soft budget is exhausted — the
// iterative-deepening driver uses this to decide whether to start
// another depth.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shrinks the soft budget when the root best move
// has held across several consecutive iterations: a stable PV is
// unlikely to change with more search, so the optimum can be spent
// early.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability grows the soft budget, capped at the hard
// maximum, when the root best move keeps changing between iterations.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	default:
		return
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
