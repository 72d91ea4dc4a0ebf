package services

// Outcome is the terminal state of one check run.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeNoMatch
	OutcomeSent
	OutcomeStale
	OutcomeSnapshotUnavailable
	OutcomeSendFailed
	OutcomePersistFailed
	OutcomeFailed
)

const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitConfig  = 2
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeSent:
		return "sent"
	case OutcomeStale:
		return "stale"
	case OutcomeSnapshotUnavailable:
		return "snapshot_unavailable"
	case OutcomeSendFailed:
		return "send_failed"
	case OutcomePersistFailed:
		return "persist_failed"
	default:
		return "failed"
	}
}

// ExitCode maps the outcome to the process exit status used by cron.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSkipped, OutcomeNoMatch, OutcomeSent:
		return ExitSuccess
	default:
		return ExitFailure
	}
}
