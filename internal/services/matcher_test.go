package services

import (
	"testing"
	"time"
	"wolwake/internal/models"
	"wolwake/internal/structures"
	"wolwake/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

func timingConfig(first, second int) *structures.Config {
	return &structures.Config{
		WolTiming: structures.WolTiming{FirstMinutes: first, SecondMinutes: second},
	}
}

func newTestMatcher(logger *testutil.MockLogger) *Matcher {
	return NewMatcher(timingConfig(30, 3), logger).(*Matcher)
}

func startingIn(name string, d time.Duration) *models.Reservation {
	return models.NewReservation(name, models.FormatTime(testNow.Add(d)))
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

func TestMatcher_Windows(t *testing.T) {
	first, second := newTestMatcher(&testutil.MockLogger{}).Windows()

	assert.Equal(t, Window{Kind: WindowFirst, Lower: 25, Upper: 32}, first)
	assert.Equal(t, Window{Kind: WindowSecond, Lower: 1, Upper: 5}, second)
}

func TestWindow_ContainsIsInclusive(t *testing.T) {
	w := Window{Kind: WindowFirst, Lower: 25, Upper: 32}

	assert.True(t, w.Contains(25))
	assert.True(t, w.Contains(28.5))
	assert.True(t, w.Contains(32))
	assert.False(t, w.Contains(24.9))
	assert.False(t, w.Contains(32.1))
}

func TestMatcher_FindBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		matched bool
		window  WindowKind
	}{
		{"first lower bound", 25.0, true, WindowFirst},
		{"just before first window", 24.9, false, 0},
		{"first upper bound", 32.0, true, WindowFirst},
		{"just after first window", 32.1, false, 0},
		{"second lower bound", 1.0, true, WindowSecond},
		{"second upper bound", 5.0, true, WindowSecond},
		{"between windows", 10.0, false, 0},
		{"already started", -3.0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatcher(&testutil.MockLogger{})
			match, ok := m.Find([]*models.Reservation{startingIn("News", minutes(tt.in))}, testNow)

			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				require.NotNil(t, match)
				assert.Equal(t, tt.window, match.Window)
				assert.InDelta(t, tt.in, match.MinutesUntilStart, 1e-9)
			}
		})
	}
}

func TestMatcher_FindSkipsSentFlag(t *testing.T) {
	m := newTestMatcher(&testutil.MockLogger{})
	r := startingIn("News", 27*time.Minute)
	r.WolSentFirst = true

	_, ok := m.Find([]*models.Reservation{r}, testNow)
	assert.False(t, ok)

	r = startingIn("News", 3*time.Minute)
	r.WolSentSecond = true
	_, ok = m.Find([]*models.Reservation{r}, testNow)
	assert.False(t, ok)
}

func TestMatcher_FindFirstMatchWins(t *testing.T) {
	m := newTestMatcher(&testutil.MockLogger{})
	reserves := []*models.Reservation{
		startingIn("Later", 90*time.Minute),
		startingIn("Second", 3*time.Minute),
		startingIn("First", 28*time.Minute),
	}

	match, ok := m.Find(reserves, testNow)
	require.True(t, ok)
	assert.Equal(t, 1, match.Index)
	assert.Equal(t, "Second", match.Reservation.ProgramName)
	assert.Equal(t, WindowSecond, match.Window)
}

func TestMatcher_FirstWindowTestedBeforeSecond(t *testing.T) {
	// Windows overlap when second_minutes is close to first_minutes.
	m := NewMatcher(timingConfig(10, 8), &testutil.MockLogger{}).(*Matcher)

	match, ok := m.Find([]*models.Reservation{startingIn("News", 7*time.Minute)}, testNow)
	require.True(t, ok)
	assert.Equal(t, WindowFirst, match.Window)
}

func TestMatcher_FindSkipsInvalidEntries(t *testing.T) {
	logger := &testutil.MockLogger{}
	m := newTestMatcher(logger)
	reserves := []*models.Reservation{
		nil,
		models.NewReservation("No start", ""),
		models.NewReservation("Garbage", "tomorrow evening"),
		startingIn("News", 26*time.Minute),
	}

	match, ok := m.Find(reserves, testNow)
	require.True(t, ok)
	assert.Equal(t, 3, match.Index)
	assert.True(t, logger.Has("warn", "Skipping empty reservation"))
	assert.True(t, logger.Has("warn", "Skipping No start"))
	assert.True(t, logger.Has("warn", "Skipping Garbage"))
}

func TestMatcher_NaiveStartTimeIsLocal(t *testing.T) {
	m := newTestMatcher(&testutil.MockLogger{})
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.Local)
	r := models.NewReservation("News", now.Add(30*time.Minute).Format("2006-01-02T15:04:05"))

	match, ok := m.Find([]*models.Reservation{r}, now)
	require.True(t, ok)
	assert.InDelta(t, 30.0, match.MinutesUntilStart, 1e-9)
}

func TestMatcher_MarkSentBatch(t *testing.T) {
	m := newTestMatcher(&testutil.MockLogger{})
	snap := models.NewSnapshot(testNow, []*models.Reservation{
		startingIn("A", 26*time.Minute),
		startingIn("B", 31*time.Minute),
		startingIn("C", 3*time.Minute),
		startingIn("D", 60*time.Minute),
	})

	marked := m.MarkSent(snap, testNow)

	assert.Equal(t, 3, marked)
	assert.True(t, snap.Reserves[0].WolSentFirst)
	assert.True(t, snap.Reserves[1].WolSentFirst)
	assert.True(t, snap.Reserves[2].WolSentSecond)
	assert.False(t, snap.Reserves[2].WolSentFirst)
	assert.False(t, snap.Reserves[3].WolSentFirst)
	assert.False(t, snap.Reserves[3].WolSentSecond)
}

func TestMatcher_MarkSentIsIdempotent(t *testing.T) {
	m := newTestMatcher(&testutil.MockLogger{})
	snap := models.NewSnapshot(testNow, []*models.Reservation{startingIn("A", 26*time.Minute)})

	assert.Equal(t, 1, m.MarkSent(snap, testNow))
	assert.Equal(t, 0, m.MarkSent(snap, testNow))
	assert.True(t, snap.Reserves[0].WolSentFirst)
}

func TestMinutesUntil(t *testing.T) {
	assert.Equal(t, 25.0, MinutesUntil(testNow.Add(25*time.Minute), testNow))
	assert.Equal(t, -1.5, MinutesUntil(testNow.Add(-90*time.Second), testNow))
}

func TestWindowKind_String(t *testing.T) {
	assert.Equal(t, "first", WindowFirst.String())
	assert.Equal(t, "second", WindowSecond.String())
	assert.Equal(t, "unknown", WindowKind(0).String())
}
