package scheduling

import "sort"

// DefaultDayEnd is the clinic closing time (19:00).
const DefaultDayEnd = 19 * 60

// Slot is a candidate [Start, Start+Duration) interval in minutes since midnight.
type Slot struct {
	Start    int
	Duration int
}

func (s Slot) End() int {
	return s.Start + s.Duration
}

// Booking is an appointment already on the calendar for the day being checked.
type Booking struct {
	ID          int
	PatientName string
	Start       int
	Duration    int
}

func (b Booking) End() int {
	return b.Start + b.Duration
}

type Conflict struct {
	AppointmentID int
	PatientName   string
	Start         int
	End           int
}

type Result struct {
	Conflict *Conflict
	// Suggestion is only set when Conflict is, and stays nil when the rest
	// of the day has no room for the requested duration.
	Suggestion *int
}

func (r Result) HasConflict() bool {
	return r.Conflict != nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// FindConflict returns the first booking, in input order, that overlaps the
// candidate slot.
func FindConflict(candidate Slot, existing []Booking) *Conflict {
	for _, b := range existing {
		if Overlaps(candidate.Start, candidate.End(), b.Start, b.End()) {
			return &Conflict{
				AppointmentID: b.ID,
				PatientName:   b.PatientName,
				Start:         b.Start,
				End:           b.End(),
			}
		}
	}
	return nil
}

// SuggestNextSlot finds the earliest start at or after requestedStart where
// duration minutes fit between the existing bookings and end no later than
// dayEnd. The second return value is false when no such start exists.
func SuggestNextSlot(requestedStart, duration int, existing []Booking, dayEnd int) (int, bool) {
	sorted := make([]Booking, len(existing))
	copy(sorted, existing)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	cursor := requestedStart
	for cursor+duration <= dayEnd {
		next, moved := advance(cursor, duration, sorted)
		if !moved {
			return cursor, true
		}
		cursor = next
	}
	return 0, false
}

// advance rescans every booking from the start so a jump past one booking is
// re-checked against all of the others.
func advance(cursor, duration int, bookings []Booking) (int, bool) {
	for _, b := range bookings {
		if Overlaps(cursor, cursor+duration, b.Start, b.End()) {
			return b.End(), true
		}
	}
	return cursor, false
}

// Check runs the conflict scan and, only when it finds something, the
// next-slot search from the candidate's own start.
func Check(candidate Slot, existing []Booking, dayEnd int) Result {
	conflict := FindConflict(candidate, existing)
	if conflict == nil {
		return Result{}
	}

	res := Result{Conflict: conflict}
	if start, ok := SuggestNextSlot(candidate.Start, candidate.Duration, existing, dayEnd); ok {
		res.Suggestion = &start
	}
	return res
}
