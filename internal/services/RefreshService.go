package services

import (
	"context"
	"fmt"
	"time"
	"wolwake/internal/epgstation"
	"wolwake/internal/models"
	"wolwake/internal/providers"
	"wolwake/internal/snapshot/interfaces"
)

const (
	RefreshOK            = "ok"
	RefreshFetchFailed   = "fetch_failed"
	RefreshPersistFailed = "persist_failed"
)

type RefreshServiceInterface interface {
	Refresh(ctx context.Context) error
}

// RefreshService replaces the snapshot with the current reservation list.
// Send flags that were already true for the same reservation survive the refresh.
type RefreshService struct {
	source  epgstation.SourceInterface
	store   interfaces.StoreInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	now     func() time.Time
}

func NewRefreshService(
	source epgstation.SourceInterface,
	store interfaces.StoreInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) RefreshServiceInterface {
	return &RefreshService{
		source:  source,
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *RefreshService) Refresh(ctx context.Context) error {
	started := time.Now()
	s.logger.Infof(providers.TypeRefresh, "Refreshing reservations")

	reserves, err := s.source.FetchReservations(ctx)
	if err != nil {
		s.metrics.IncRefreshRuns(RefreshFetchFailed)
		s.logger.Errorf(providers.TypeRefresh, "Failed to fetch reservations: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeRefresh, "Fetched %d reservations", len(reserves))

	err = s.store.Replace(ctx, func(previous *models.Snapshot) *models.Snapshot {
		snap := models.NewSnapshot(s.now(), reserves)
		if carried := snap.CarryFlags(previous); carried > 0 {
			s.logger.Infof(providers.TypeRefresh, "Carried over %d sent flags", carried)
		}
		return snap
	})
	if err != nil {
		s.metrics.IncRefreshRuns(RefreshPersistFailed)
		s.logger.Errorf(providers.TypeRefresh, "Failed to save snapshot: %s", err)
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.metrics.IncRefreshRuns(RefreshOK)
	s.metrics.SetRefreshReservations(len(reserves))
	s.metrics.ObserveRefreshDuration(time.Since(started))
	s.logger.Infof(providers.TypeRefresh, "Snapshot updated with %d reservations", len(reserves))
	return nil
}
