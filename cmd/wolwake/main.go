package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"wolwake/internal"
	"wolwake/internal/di"
	"wolwake/internal/providers"
	"wolwake/internal/services"
	"wolwake/internal/structures"
	"wolwake/internal/wol"

	"github.com/urfave/cli"
)

var (
	version = "dev"

	flags = structures.CliFlags{}

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Value:       "config/config.json",
			Usage:       "path to the config file (json, yaml or toml)",
			Destination: &flags.ConfigPath,
		},
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "mirror logs to the console",
			Destination: &flags.DebugMode,
		},
	}
)

func main() {
	app := cli.NewApp()
	app.Name = providers.AppName
	app.Usage = "wake the recording PC ahead of scheduled EPGStation reservations"
	app.Version = version
	app.Flags = globalFlags
	app.Commands = []cli.Command{
		{
			Name:   "check",
			Usage:  "probe the PC and send a wake packet if a reservation is about to start",
			Action: withApp(func(ctx context.Context, a *internal.App) int { return a.Check(ctx) }),
		},
		{
			Name:   "refresh",
			Usage:  "fetch reservations from EPGStation into the local snapshot",
			Action: withApp(func(ctx context.Context, a *internal.App) int { return a.Refresh(ctx) }),
		},
		{
			Name:   "daemon",
			Usage:  "run check and refresh on the configured intervals",
			Action: withApp(func(ctx context.Context, a *internal.App) int { return a.Daemon(ctx) }),
		},
		{
			Name:   "restore",
			Usage:  "put the snapshot archived by the last refresh back in place",
			Action: withApp(func(ctx context.Context, a *internal.App) int { return a.Restore(ctx) }),
		},
		{
			Name:      "send",
			Usage:     "send a single wake packet without reading the config",
			ArgsUsage: "<mac> [broadcast] [port]",
			Action:    send,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(services.ExitFailure)
	}
}

func withApp(run func(ctx context.Context, a *internal.App) int) func(*cli.Context) error {
	return func(c *cli.Context) error {
		flags.Command = c.Command.Name
		a, err := di.InitApp(&flags)
		if err != nil {
			code := services.ExitFailure
			if errors.Is(err, providers.ErrConfig) {
				code = services.ExitConfig
			}
			return cli.NewExitError(err.Error(), code)
		}
		defer a.Close()

		return exit(run(context.Background(), a))
	}
}

func send(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 1 {
		cli.ShowCommandHelp(ctx, "send")
		return cli.NewExitError("", services.ExitFailure)
	}

	broadcast := wol.DefaultBroadcastAddress
	if len(args) > 1 {
		broadcast = args.Get(1)
	}
	port := wol.DefaultWOLPort
	if len(args) > 2 {
		p, err := strconv.Atoi(args.Get(2))
		if err != nil || p < 1 || p > 65535 {
			return cli.NewExitError(fmt.Sprintf("invalid port %q", args.Get(2)), services.ExitFailure)
		}
		port = p
	}

	level := "info"
	if flags.DebugMode {
		level = "debug"
	}
	logger := providers.NewConsoleLogger(level)
	defer logger.Close()

	sender := wol.NewSender(broadcast, port, 5*time.Second)
	return exit(internal.SendPacket(context.Background(), sender, logger, args.First()))
}

func exit(code int) error {
	if code == services.ExitSuccess {
		return nil
	}
	return cli.NewExitError("", code)
}
