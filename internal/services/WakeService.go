package services

import (
	"context"
	"errors"
	"time"
	"wolwake/internal/models"
	"wolwake/internal/probe"
	"wolwake/internal/providers"
	"wolwake/internal/snapshot"
	"wolwake/internal/snapshot/interfaces"
	"wolwake/internal/structures"
	"wolwake/internal/wol"
)

type WakeServiceInterface interface {
	Check(ctx context.Context) Outcome
}

// WakeService runs one check-and-send pass: liveness, freshness, matching,
// sending and the flag update, in that order.
type WakeService struct {
	conf    *structures.Config
	store   interfaces.StoreInterface
	prober  probe.ProberInterface
	sender  wol.SenderInterface
	matcher MatcherInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	now     func() time.Time
}

func NewWakeService(
	conf *structures.Config,
	store interfaces.StoreInterface,
	prober probe.ProberInterface,
	sender wol.SenderInterface,
	matcher MatcherInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) WakeServiceInterface {
	return &WakeService{
		conf:    conf,
		store:   store,
		prober:  prober,
		sender:  sender,
		matcher: matcher,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *WakeService) Check(ctx context.Context) Outcome {
	outcome := s.check(ctx)
	s.metrics.IncCheckRuns(outcome.String())
	s.logger.Infof(providers.TypeCheck, "WOL check finished: %s", outcome)
	return outcome
}

func (s *WakeService) check(ctx context.Context) Outcome {
	s.logger.Infof(providers.TypeCheck, "WOL check started")

	pc := s.conf.DesktopPC
	method := s.conf.Monitoring.PcCheckMethod
	if s.prober.IsAlive(ctx, pc.IPAddress, method, s.conf.Monitoring.Timeout()) {
		s.logger.Infof(providers.TypeCheck, "PC %s is already up (%s), nothing to do", pc.IPAddress, method)
		return OutcomeSkipped
	}
	s.logger.Infof(providers.TypeCheck, "PC %s is down (%s)", pc.IPAddress, method)

	now := s.now()
	outcome := OutcomeFailed
	err := s.store.Update(ctx, func(snap *models.Snapshot) (bool, error) {
		var changed bool
		outcome, changed = s.decide(ctx, snap, now)
		return changed, nil
	})
	if err == nil {
		return outcome
	}

	switch {
	case errors.Is(err, snapshot.ErrSnapshotMissing):
		s.logger.Errorf(providers.TypeCheck, "Reservation snapshot not found, run refresh first: %s", err)
		return OutcomeSnapshotUnavailable
	case errors.Is(err, snapshot.ErrSnapshotCorrupt):
		s.logger.Errorf(providers.TypeCheck, "Reservation snapshot unreadable: %s", err)
		return OutcomeSnapshotUnavailable
	case outcome == OutcomeSent:
		s.logger.Errorf(providers.TypeCheck, "Wake packet sent but flags were not saved: %s", err)
		return OutcomePersistFailed
	default:
		s.logger.Errorf(providers.TypeCheck, "WOL check failed: %s", err)
		return OutcomeFailed
	}
}

// decide runs under the snapshot lock. Flags are only touched after a successful send.
func (s *WakeService) decide(ctx context.Context, snap *models.Snapshot, now time.Time) (Outcome, bool) {
	s.logger.Infof(providers.TypeCheck, "Loaded snapshot with %d reservations", len(snap.Reserves))

	updated, err := snap.UpdatedAt()
	if err != nil {
		s.logger.Errorf(providers.TypeCheck, "Snapshot last_updated %q is invalid: %s", snap.LastUpdated, err)
		return OutcomeSnapshotUnavailable, false
	}
	age, fresh := CheckFreshness(updated, now, s.conf.Cache.MaxAge())
	s.metrics.SetSnapshotAge(age)
	if !fresh {
		s.logger.Warnf(providers.TypeCheck, "Snapshot is stale: updated %s ago, limit %s", age.Round(time.Second), s.conf.Cache.MaxAge())
		return OutcomeStale, false
	}

	match, ok := s.matcher.Find(snap.Reserves, now)
	if !ok {
		s.logger.Infof(providers.TypeCheck, "No reservation inside a wake window")
		return OutcomeNoMatch, false
	}
	s.logger.Infof(providers.TypeCheck, "Reservation %s starts in %.1f minutes, sending %s WOL",
		match.Reservation.DisplayName(), match.MinutesUntilStart, match.Window)

	if err := s.sender.Send(ctx, s.conf.DesktopPC.MacAddress); err != nil {
		s.metrics.IncSendFailures()
		s.logger.Errorf(providers.TypeSend, "Failed to send WOL to %s: %s", s.conf.DesktopPC.MacAddress, err)
		return OutcomeSendFailed, false
	}
	s.metrics.IncPacketsSent()
	s.logger.Infof(providers.TypeSend, "WOL sent to %s", s.conf.DesktopPC.MacAddress)

	marked := s.matcher.MarkSent(snap, now)
	s.metrics.AddFlagsMarked(marked)
	return OutcomeSent, marked > 0
}
