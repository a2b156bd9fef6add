package scheduling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) int {
	t.Helper()
	m, err := ParseClock(s)
	require.NoError(t, err)
	return m
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"touching after", 540, 600, 600, 630, false},
		{"touching before", 600, 630, 540, 600, false},
		{"disjoint", 540, 570, 600, 630, false},
		{"starts during", 555, 585, 540, 570, true},
		{"ends during", 530, 550, 540, 570, true},
		{"contains", 530, 600, 540, 570, true},
		{"contained", 545, 560, 540, 570, true},
		{"identical", 540, 570, 540, 570, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestOverlaps_MatchesHalfOpenDefinition(t *testing.T) {
	for aStart := 0; aStart < 12; aStart++ {
		for aEnd := aStart + 1; aEnd <= 12; aEnd++ {
			for bStart := 0; bStart < 12; bStart++ {
				for bEnd := bStart + 1; bEnd <= 12; bEnd++ {
					disjoint := aEnd <= bStart || bEnd <= aStart
					assert.Equal(t, !disjoint, Overlaps(aStart, aEnd, bStart, bEnd),
						"[%d,%d) vs [%d,%d)", aStart, aEnd, bStart, bEnd)
				}
			}
		}
	}
}

func TestFindConflict_EmptyDay(t *testing.T) {
	for _, start := range []int{0, 540, 1410} {
		assert.Nil(t, FindConflict(Slot{Start: start, Duration: 30}, nil))
	}
}

func TestFindConflict_FirstMatchInInputOrder(t *testing.T) {
	existing := []Booking{
		{ID: 2, PatientName: "Later", Start: 600, Duration: 30},
		{ID: 1, PatientName: "Earlier", Start: 540, Duration: 60},
	}

	c := FindConflict(Slot{Start: 570, Duration: 60}, existing)
	require.NotNil(t, c)
	assert.Equal(t, "Later", c.PatientName)
	assert.Equal(t, 2, c.AppointmentID)
	assert.Equal(t, 630, c.End)
}

func TestSuggestNextSlot_EmptyDayReturnsRequested(t *testing.T) {
	got, ok := SuggestNextSlot(617, 45, nil, DefaultDayEnd)
	require.True(t, ok)
	assert.Equal(t, 617, got)
}

func TestSuggestNextSlot_DoesNotMutateInput(t *testing.T) {
	existing := []Booking{
		{ID: 1, Start: 600, Duration: 30},
		{ID: 2, Start: 540, Duration: 60},
	}
	_, _ = SuggestNextSlot(540, 30, existing, DefaultDayEnd)
	assert.Equal(t, 1, existing[0].ID)
	assert.Equal(t, 2, existing[1].ID)
}

func TestSuggestNextSlot_OverlappingBookingsRestartScan(t *testing.T) {
	// The booking at 09:30 overlaps the one at 09:00; jumping past 09:00
	// lands inside 09:30-10:15, so the scan has to start over.
	existing := []Booking{
		{Start: 570, Duration: 45},
		{Start: 540, Duration: 40},
		{Start: 615, Duration: 15},
	}
	got, ok := SuggestNextSlot(545, 20, existing, DefaultDayEnd)
	require.True(t, ok)
	assert.Equal(t, 630, got)
}

func TestSuggestNextSlot_DayEndIsInclusiveForEnd(t *testing.T) {
	got, ok := SuggestNextSlot(1110, 30, nil, 1140)
	require.True(t, ok)
	assert.Equal(t, 1110, got)

	_, ok = SuggestNextSlot(1111, 30, nil, 1140)
	assert.False(t, ok)
}

func TestSuggestNextSlot_Exhausted(t *testing.T) {
	existing := []Booking{{Start: 1080, Duration: 50}}
	_, ok := SuggestNextSlot(1090, 30, existing, 1140)
	assert.False(t, ok)
}

func TestSuggestNextSlot_RandomisedProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const dayEnd = 600

	for iter := 0; iter < 500; iter++ {
		var existing []Booking
		for n := rng.Intn(6); n > 0; n-- {
			existing = append(existing, Booking{Start: rng.Intn(dayEnd), Duration: 1 + rng.Intn(90)})
		}
		requested := rng.Intn(dayEnd)
		duration := 1 + rng.Intn(60)

		want, wantOK := bruteForceSlot(requested, duration, existing, dayEnd)
		got, ok := SuggestNextSlot(requested, duration, existing, dayEnd)

		require.Equal(t, wantOK, ok, "iteration %d", iter)
		if !ok {
			continue
		}
		require.Equal(t, want, got, "iteration %d", iter)
		assert.LessOrEqual(t, got+duration, dayEnd)
		assert.Nil(t, FindConflict(Slot{Start: got, Duration: duration}, existing))

		again, _ := SuggestNextSlot(requested, duration, existing, dayEnd)
		assert.Equal(t, got, again)
	}
}

func bruteForceSlot(requested, duration int, existing []Booking, dayEnd int) (int, bool) {
	for t := requested; t+duration <= dayEnd; t++ {
		if FindConflict(Slot{Start: t, Duration: duration}, existing) == nil {
			return t, true
		}
	}
	return 0, false
}

func TestCheck_Examples(t *testing.T) {
	t.Run("starts during existing", func(t *testing.T) {
		existing := []Booking{{PatientName: "Ana", Start: mustClock(t, "09:00"), Duration: 30}}
		res := Check(Slot{Start: mustClock(t, "09:15"), Duration: 30}, existing, DefaultDayEnd)

		require.True(t, res.HasConflict())
		assert.Equal(t, "Ana", res.Conflict.PatientName)
		assert.Equal(t, "09:30", FormatClock(res.Conflict.End))
		require.NotNil(t, res.Suggestion)
		assert.Equal(t, "09:30", FormatClock(*res.Suggestion))
	})

	t.Run("naive jump still conflicts", func(t *testing.T) {
		existing := []Booking{
			{PatientName: "First", Start: mustClock(t, "09:00"), Duration: 60},
			{PatientName: "Second", Start: mustClock(t, "10:00"), Duration: 30},
		}
		res := Check(Slot{Start: mustClock(t, "09:30"), Duration: 60}, existing, DefaultDayEnd)

		require.True(t, res.HasConflict())
		assert.Equal(t, "First", res.Conflict.PatientName)
		require.NotNil(t, res.Suggestion)
		assert.Equal(t, "10:30", FormatClock(*res.Suggestion))
	})

	t.Run("past closing time with empty day", func(t *testing.T) {
		start := mustClock(t, "18:45")
		_, ok := SuggestNextSlot(start, 30, nil, 1140)
		assert.False(t, ok)

		res := Check(Slot{Start: start, Duration: 30}, nil, 1140)
		assert.False(t, res.HasConflict())
		assert.Nil(t, res.Suggestion)
	})

	t.Run("touching intervals", func(t *testing.T) {
		existing := []Booking{{PatientName: "Ana", Start: mustClock(t, "09:00"), Duration: 30}}
		res := Check(Slot{Start: mustClock(t, "09:30"), Duration: 30}, existing, DefaultDayEnd)
		assert.False(t, res.HasConflict())
	})
}

func TestCheck_ConflictWithoutRoomLeft(t *testing.T) {
	existing := []Booking{{PatientName: "Late", Start: 1080, Duration: 60}}
	res := Check(Slot{Start: 1100, Duration: 30}, existing, 1140)

	require.True(t, res.HasConflict())
	assert.Nil(t, res.Suggestion)
}
