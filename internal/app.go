package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wolwake/internal/providers"
	"wolwake/internal/services"
	"wolwake/internal/snapshot"
	"wolwake/internal/structures"
	"wolwake/internal/wol"
)

// App is the process boundary: each command runs one operation and returns an exit code.
type App struct {
	conf      *structures.Config
	logger    providers.Logger
	wake      services.WakeServiceInterface
	refresh   services.RefreshServiceInterface
	scheduler services.SchedulerInterface
	files     *snapshot.FileManager
	metrics   providers.MetricsProviderInterface
	router    *StatusRouter
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	wake services.WakeServiceInterface,
	refresh services.RefreshServiceInterface,
	scheduler services.SchedulerInterface,
	files *snapshot.FileManager,
	metrics providers.MetricsProviderInterface,
	router *StatusRouter,
) *App {
	return &App{
		conf:      conf,
		logger:    logger,
		wake:      wake,
		refresh:   refresh,
		scheduler: scheduler,
		files:     files,
		metrics:   metrics,
		router:    router,
	}
}

func (a *App) Check(ctx context.Context) int {
	return a.guard("check", func() int {
		return a.wake.Check(ctx).ExitCode()
	})
}

func (a *App) Refresh(ctx context.Context) int {
	return a.guard("refresh", func() int {
		if err := a.refresh.Refresh(ctx); err != nil {
			return services.ExitFailure
		}
		return services.ExitSuccess
	})
}

func (a *App) Restore(ctx context.Context) int {
	return a.guard("restore", func() int {
		if _, err := a.files.RestoreBackup(ctx); err != nil {
			a.logger.Errorf(providers.TypeApp, "Restore failed: %s", err)
			return services.ExitFailure
		}
		return services.ExitSuccess
	})
}

// Daemon runs check and refresh on the configured intervals until SIGINT or SIGTERM.
// When daemon.listen is set, /health (and /metrics when enabled) are served there.
func (a *App) Daemon(ctx context.Context) int {
	return a.guard("daemon", func() int {
		a.logger.Infof(providers.TypeApp, "Starting %s daemon", a.conf.AppName)
		a.scheduler.Init()

		var server *http.Server
		serverErr := make(chan error, 1)
		if a.conf.Daemon.Listen != "" {
			server = &http.Server{
				Addr:         a.conf.Daemon.Listen,
				Handler:      a.router,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			go func() {
				a.logger.Infof(providers.TypeApp, "Listening for status requests on %s", a.conf.Daemon.Listen)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
			}()
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		code := services.ExitSuccess
		select {
		case <-ctx.Done():
			a.logger.Infof(providers.TypeApp, "Shutdown signal received")
		case err := <-serverErr:
			a.logger.Errorf(providers.TypeApp, "Status listener failed: %s", err)
			code = services.ExitFailure
		}

		a.scheduler.Stop()
		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Warnf(providers.TypeApp, "Status listener shutdown: %s", err)
			}
		}
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
		return code
	})
}

// guard turns a panic inside a command into a logged failure exit.
func (a *App) guard(command string, fn func() int) (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorf(providers.TypeApp, "Unexpected error in %s: %v", command, r)
			code = services.ExitFailure
		}
		if err := a.metrics.Flush(); err != nil {
			a.logger.Warnf(providers.TypeApp, "Unable to write metrics: %s", err)
		}
	}()
	return fn()
}

func (a *App) Close() {
	a.files.Close()
	a.logger.Close()
}

// SendPacket backs the standalone send command, which needs no config file.
func SendPacket(ctx context.Context, sender wol.SenderInterface, logger providers.Logger, macAddress string) int {
	if err := sender.Send(ctx, macAddress); err != nil {
		if errors.Is(err, wol.ErrInvalidAddress) {
			logger.Errorf(providers.TypeSend, "Invalid MAC address %q: %s", macAddress, err)
		} else {
			logger.Errorf(providers.TypeSend, "Failed to send WOL to %s: %s", macAddress, err)
		}
		return services.ExitFailure
	}
	logger.Infof(providers.TypeSend, "WOL sent to %s", macAddress)
	fmt.Fprintf(os.Stdout, "WOL packet sent to %s\n", macAddress)
	return services.ExitSuccess
}
