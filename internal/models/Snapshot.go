package models

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const (
	keyLastUpdated = "last_updated"
	keyReserves    = "reserves"
)

// Snapshot is the persisted unit: every write replaces the whole object. Top-level
// keys other than last_updated and reserves are carried through untouched.
type Snapshot struct {
	LastUpdated string
	Reserves    []*Reservation

	raw map[string]json.RawMessage
}

func NewSnapshot(updated time.Time, reserves []*Reservation) *Snapshot {
	if reserves == nil {
		reserves = []*Reservation{}
	}
	return &Snapshot{
		LastUpdated: FormatTime(updated),
		Reserves:    reserves,
	}
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Snapshot{raw: raw}
	if v, ok := raw[keyLastUpdated]; ok {
		if err := json.Unmarshal(v, &s.LastUpdated); err != nil {
			return fmt.Errorf("last_updated: %w", err)
		}
	}
	if v, ok := raw[keyReserves]; ok {
		if err := json.Unmarshal(v, &s.Reserves); err != nil {
			return fmt.Errorf("reserves: %w", err)
		}
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.raw)+2)
	for k, v := range s.raw {
		out[k] = v
	}

	reserves := s.Reserves
	if reserves == nil {
		reserves = []*Reservation{}
	}
	out[keyLastUpdated] = s.LastUpdated
	out[keyReserves] = reserves
	return json.Marshal(out)
}

func (s *Snapshot) UpdatedAt() (time.Time, error) {
	return ParseTime(s.LastUpdated)
}

// CarryFlags copies send flags that are already true in previous onto the matching
// reservations of s, so a refresh never turns a sent flag back to false.
func (s *Snapshot) CarryFlags(previous *Snapshot) int {
	if previous == nil {
		return 0
	}

	sent := make(map[string]*Reservation, len(previous.Reserves))
	for _, r := range previous.Reserves {
		if r == nil {
			continue
		}
		if r.WolSentFirst || r.WolSentSecond {
			sent[r.Key()] = r
		}
	}

	carried := 0
	for _, r := range s.Reserves {
		if r == nil {
			continue
		}
		old, ok := sent[r.Key()]
		if !ok {
			continue
		}
		if old.WolSentFirst && !r.WolSentFirst {
			r.WolSentFirst = true
			carried++
		}
		if old.WolSentSecond && !r.WolSentSecond {
			r.WolSentSecond = true
			carried++
		}
	}
	return carried
}
