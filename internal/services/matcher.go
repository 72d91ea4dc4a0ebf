package services

import (
	"time"
	"wolwake/internal/models"
	"wolwake/internal/providers"
	"wolwake/internal/structures"
)

const (
	firstLead   = 5.0
	firstTrail  = 2.0
	secondLead  = 2.0
	secondTrail = 2.0
)

type WindowKind int

const (
	WindowFirst WindowKind = iota + 1
	WindowSecond
)

func (k WindowKind) String() string {
	switch k {
	case WindowFirst:
		return "first"
	case WindowSecond:
		return "second"
	default:
		return "unknown"
	}
}

// Window is a closed interval of minutes-until-start.
type Window struct {
	Kind  WindowKind
	Lower float64
	Upper float64
}

func (w Window) Contains(minutes float64) bool {
	return w.Lower <= minutes && minutes <= w.Upper
}

func (w Window) sent(r *models.Reservation) bool {
	if w.Kind == WindowFirst {
		return r.WolSentFirst
	}
	return r.WolSentSecond
}

func (w Window) mark(r *models.Reservation) {
	if w.Kind == WindowFirst {
		r.WolSentFirst = true
	} else {
		r.WolSentSecond = true
	}
}

// Match is the first reservation found inside an unsent window.
type Match struct {
	Index             int
	Reservation       *models.Reservation
	Window            WindowKind
	MinutesUntilStart float64
}

type MatcherInterface interface {
	Find(reserves []*models.Reservation, now time.Time) (*Match, bool)
	MarkSent(snap *models.Snapshot, now time.Time) int
}

type Matcher struct {
	first  Window
	second Window
	logger providers.Logger
}

// NewMatcher derives the first window [first-5, first+2] and the second window
// [second-2, second+2] from wol_timing.
func NewMatcher(conf *structures.Config, logger providers.Logger) MatcherInterface {
	first := float64(conf.WolTiming.FirstMinutes)
	second := float64(conf.WolTiming.SecondMinutes)
	return &Matcher{
		first:  Window{Kind: WindowFirst, Lower: first - firstLead, Upper: first + firstTrail},
		second: Window{Kind: WindowSecond, Lower: second - secondLead, Upper: second + secondTrail},
		logger: logger,
	}
}

func (m *Matcher) Windows() (Window, Window) {
	return m.first, m.second
}

// MinutesUntil is the signed, fractional number of minutes from now to start.
func MinutesUntil(start, now time.Time) float64 {
	return start.Sub(now).Minutes()
}

// Find walks reserves in order and returns the first one that sits inside a window whose
// flag is still false. The first window is tested before the second for each reservation.
func (m *Matcher) Find(reserves []*models.Reservation, now time.Time) (*Match, bool) {
	for i, r := range reserves {
		minutes, ok := m.minutesUntil(i, r, now)
		if !ok {
			continue
		}
		m.logger.Debugf(providers.TypeCheck, "%s starts in %.1f minutes", r.DisplayName(), minutes)

		for _, w := range []Window{m.first, m.second} {
			if w.Contains(minutes) && !w.sent(r) {
				return &Match{Index: i, Reservation: r, Window: w.Kind, MinutesUntilStart: minutes}, true
			}
		}
	}
	return nil, false
}

// MarkSent sets the flag of every reservation that sits inside an unsent window at now,
// not only the one that triggered the send. Returns the number of flags set.
func (m *Matcher) MarkSent(snap *models.Snapshot, now time.Time) int {
	marked := 0
	for i, r := range snap.Reserves {
		minutes, ok := m.minutesUntil(i, r, now)
		if !ok {
			continue
		}
		for _, w := range []Window{m.first, m.second} {
			if w.Contains(minutes) && !w.sent(r) {
				w.mark(r)
				marked++
				m.logger.Infof(providers.TypeCheck, "Marked %s WOL as sent for %s", w.Kind, r.DisplayName())
			}
		}
	}
	return marked
}

func (m *Matcher) minutesUntil(i int, r *models.Reservation, now time.Time) (float64, bool) {
	if r == nil {
		m.logger.Warnf(providers.TypeCheck, "Skipping empty reservation at index %d", i)
		return 0, false
	}
	start, err := r.Start()
	if err != nil {
		m.logger.Warnf(providers.TypeCheck, "Skipping %s: %s", r.DisplayName(), err)
		return 0, false
	}
	return MinutesUntil(start, now), true
}
