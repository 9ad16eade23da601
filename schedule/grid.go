package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_match/timeslot"
)

// The weekly grid is Monday-first and covers one-hour blocks from StartHour
// (inclusive) to EndHour (exclusive).
const (
	Days      = 7
	StartHour = 8
	EndHour   = 20
	Blocks    = EndHour - StartHour
)

// ErrInvalidSchedule is returned when an availability grid is empty or has
// an empty row. An out-of-window hour is not an error, it is just "not
// available".
var ErrInvalidSchedule = errors.New("schedule: invalid availability grid")

// Grid is a weekly availability bitmap: rows are days of the week
// (Monday-first), columns are hour blocks, cells are 0 or 1.
type Grid [][]int

// NewGrid returns a fully unavailable 7xBlocks grid.
func NewGrid() Grid {
	g := make(Grid, Days)
	for d := range g {
		g[d] = make([]int, Blocks)
	}
	return g
}

// IsAvailable reports the stored bit for a day row and block column. Any
// coordinate outside the grid bounds is reported as unavailable rather than
// failing.
func (g Grid) IsAvailable(day, block int) bool {
	if day < 0 || day >= len(g) {
		return false
	}
	if block < 0 || block >= len(g[day]) {
		return false
	}
	return g[day][block] == 1
}

// SetAvailable returns a copy of the grid with one cell set; the receiver is
// never mutated. Out-of-bounds coordinates leave the copy unchanged.
func (g Grid) SetAvailable(day, block int, available bool) Grid {
	out := make(Grid, len(g))
	for d := range g {
		out[d] = append([]int(nil), g[d]...)
	}
	if day < 0 || day >= len(out) || block < 0 || block >= len(out[day]) {
		return out
	}
	if available {
		out[day][block] = 1
	} else {
		out[day][block] = 0
	}
	return out
}

func (g Grid) validate() error {
	if len(g) == 0 {
		return fmt.Errorf("%w: grid is empty", ErrInvalidSchedule)
	}
	for d, row := range g {
		if len(row) == 0 {
			return fmt.Errorf("%w: day %d has no blocks", ErrInvalidSchedule, d)
		}
	}
	return nil
}

// IsTutorAvailable decodes a time-slot string against a tutor's weekly grid.
//
//   - an empty grid or a grid with an empty row fails with ErrInvalidSchedule,
//   - a slot that cannot be parsed fails with ErrInvalidTimeSlot,
//   - an hour outside the covered window returns false without error,
//   - otherwise the stored bit decides.
//
// Instant slots have no scheduled hour and always come back unavailable; the
// matching engine routes them through the geofilter instead of the grid.
func IsTutorAvailable(g Grid, slot string) (bool, error) {
	spec, err := timeslot.Parse(slot)
	if err != nil {
		return false, err
	}
	return IsAvailableAt(g, spec)
}

// IsAvailableAt is IsTutorAvailable for an already-decoded slot; callers
// checking one slot against many grids parse it once and use this.
func IsAvailableAt(g Grid, spec timeslot.Spec) (bool, error) {
	if err := g.validate(); err != nil {
		return false, err
	}
	if spec.IsInstant() {
		return false, nil
	}

	day := mondayFirst(spec.Time.Weekday())
	hour := spec.Time.Hour()
	if hour < StartHour || hour >= EndHour {
		return false, nil
	}
	block := hour - StartHour
	if day >= len(g) || block >= len(g[day]) {
		return false, nil
	}
	return g[day][block] == 1, nil
}

func mondayFirst(w time.Weekday) int {
	return (int(w) + 6) % 7
}
