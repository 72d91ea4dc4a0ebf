package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	keyID            = "id"
	keyProgramName   = "program_name"
	keyStartTime     = "start_time"
	keyWolSentFirst  = "wol_sent_first"
	keyWolSentSecond = "wol_sent_second"

	UnknownProgram = "unknown"
)

var ErrMissingStartTime = errors.New("reservation has no start_time")

// Reservation is one scheduled recording. Fields other than the two send flags are
// kept verbatim from the source payload and written back unchanged.
type Reservation struct {
	ProgramName   string
	StartTime     string
	WolSentFirst  bool
	WolSentSecond bool

	hasStartTime bool
	raw          map[string]json.RawMessage
}

func NewReservation(programName, startTime string) *Reservation {
	return &Reservation{
		ProgramName:  programName,
		StartTime:    startTime,
		hasStartTime: startTime != "",
	}
}

func (r *Reservation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Reservation{raw: raw}
	if v, ok := raw[keyProgramName]; ok {
		_ = json.Unmarshal(v, &r.ProgramName)
	}
	if v, ok := raw[keyStartTime]; ok {
		r.hasStartTime = json.Unmarshal(v, &r.StartTime) == nil && r.StartTime != ""
	}
	r.WolSentFirst = truthy(raw[keyWolSentFirst])
	r.WolSentSecond = truthy(raw[keyWolSentSecond])
	return nil
}

func (r Reservation) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.raw)+4)
	for k, v := range r.raw {
		out[k] = v
	}

	if _, ok := out[keyProgramName]; !ok && r.ProgramName != "" {
		out[keyProgramName], _ = json.Marshal(r.ProgramName)
	}
	if _, ok := out[keyStartTime]; !ok && r.StartTime != "" {
		out[keyStartTime], _ = json.Marshal(r.StartTime)
	}
	putFlag(out, keyWolSentFirst, r.WolSentFirst)
	putFlag(out, keyWolSentSecond, r.WolSentSecond)

	return json.Marshal(out)
}

// DisplayName falls back to UnknownProgram when the source omitted a name.
func (r *Reservation) DisplayName() string {
	if r.ProgramName == "" {
		return UnknownProgram
	}
	return r.ProgramName
}

// Start parses start_time. Missing or unparsable values are errors and the
// reservation must not be matched.
func (r *Reservation) Start() (time.Time, error) {
	if !r.hasStartTime {
		return time.Time{}, ErrMissingStartTime
	}
	return ParseTime(r.StartTime)
}

// Key identifies the same reservation across two fetches: the source id when
// present, otherwise name and start time.
func (r *Reservation) Key() string {
	if v, ok := r.raw[keyID]; ok && string(v) != "null" {
		return "id:" + string(v)
	}
	return fmt.Sprintf("ps:%s|%s", r.ProgramName, r.StartTime)
}

// Field returns a raw source field, for fields the model does not name.
func (r *Reservation) Field(key string) (json.RawMessage, bool) {
	v, ok := r.raw[key]
	return v, ok
}

// putFlag leaves a stored flag untouched while its meaning is unchanged and never
// adds an unset flag the payload did not carry.
func putFlag(out map[string]json.RawMessage, key string, set bool) {
	old, ok := out[key]
	if ok && truthy(old) == set {
		return
	}
	if !ok && !set {
		return
	}
	out[key], _ = json.Marshal(set)
}

// truthy treats false, null, zero, empty strings and empty containers as unset.
// Anything else, including an unparsable value, counts as set.
func truthy(v json.RawMessage) bool {
	s := strings.TrimSpace(string(v))
	switch s {
	case "", "false", "null", `""`:
		return false
	case "true":
		return true
	}

	switch s[0] {
	case '[':
		var list []json.RawMessage
		if json.Unmarshal(v, &list) == nil {
			return len(list) > 0
		}
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(v, &obj) == nil {
			return len(obj) > 0
		}
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
	}
	return true
}
