package services

import (
	"context"
	"sync"
	"time"
	"wolwake/internal/providers"
	"wolwake/internal/structures"

	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Status() RunStatus
}

// RunStatus describes the latest scheduled runs, for the status listener.
type RunStatus struct {
	LastCheck        time.Time
	LastCheckOutcome string
	LastRefresh      time.Time
	LastRefreshError string
}

// Scheduler drives check and refresh from an in-process cron instead of the system crontab.
// Runs never overlap.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	wake     WakeServiceInterface
	refresh  RefreshServiceInterface
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
	statusMu sync.RWMutex
	status   RunStatus
}

// Init refreshes once synchronously, then starts both jobs.
func (s *Scheduler) Init() {
	s.runRefresh()

	s.cron = gron.New()
	checkInterval := time.Duration(s.config.Daemon.CheckInterval) * time.Second
	refreshInterval := time.Duration(s.config.Daemon.RefreshInterval) * time.Second

	s.cron.AddFunc(gron.Every(refreshInterval), s.runRefresh)
	s.cron.AddFunc(gron.Every(checkInterval), s.runCheck)

	s.logger.Infof(providers.TypeApp, "Scheduler started: check every %s, refresh every %s", checkInterval, refreshInterval)
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.logger.Infof(providers.TypeApp, "Scheduler stopped")
}

func (s *Scheduler) Status() RunStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Scheduler) runCheck() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	outcome := s.wake.Check(context.Background())

	s.statusMu.Lock()
	s.status.LastCheck = time.Now()
	s.status.LastCheckOutcome = outcome.String()
	s.statusMu.Unlock()

	s.flush()
}

func (s *Scheduler) runRefresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.refresh.Refresh(context.Background())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Scheduled refresh failed: %s", err)
	}

	s.statusMu.Lock()
	s.status.LastRefresh = time.Now()
	s.status.LastRefreshError = ""
	if err != nil {
		s.status.LastRefreshError = err.Error()
	}
	s.statusMu.Unlock()

	s.flush()
}

func (s *Scheduler) flush() {
	if err := s.metrics.Flush(); err != nil {
		s.logger.Warnf(providers.TypeApp, "Unable to write metrics: %s", err)
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, wake WakeServiceInterface, refresh RefreshServiceInterface, metrics providers.MetricsProviderInterface) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		wake:    wake,
		refresh: refresh,
		metrics: metrics,
	}
}
