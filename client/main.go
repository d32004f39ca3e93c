package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evalsuite/batchmeter/client/engine"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	cfg := engine.DefaultConfig()

	setupFlags(cfg)

	flag.Parse()

	// Handle Color
	useColor := true
	if strings.ToLower(cfg.ColorMode) == "never" || os.Getenv("NO_COLOR") != "" {
		useColor = false
	}
	if strings.ToLower(cfg.ColorMode) == "auto" && !engine.IsTTY() {
		useColor = false
	}

	engine.InitColorStyles(useColor)

	fx.New(
		fx.Provide(func() *engine.Config { return cfg }),
		fx.WithLogger(func() fxevent.Logger {
			if cfg.Debug {
				return &fxevent.ConsoleLogger{W: os.Stderr}
			}
			return fxevent.NopLogger
		}),
		engine.Module,
		fx.Invoke(runApp),
	).Run()
}

func setupFlags(cfg *engine.Config) {
	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the batchmeter server")
	flag.StringVar(&cfg.RunID, "run", cfg.RunID, "Run id to watch (empty=list all runs)")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Refresh interval (e.g. 2s)")
	flag.IntVar(&cfg.TimeoutMs, "timeout-ms", cfg.TimeoutMs, "HTTP timeout")
	flag.BoolVar(&cfg.Follow, "follow", cfg.Follow, "Keep polling until the run completes")
	flag.BoolVar(&cfg.ReportOnly, "report", cfg.ReportOnly, "Fetch the final report and exit")
	flag.IntVar(&cfg.SuccessfulItems, "successful-items", cfg.SuccessfulItems, "Success count for the corrected report accounting (-1=off)")
	flag.StringVar(&cfg.ColorMode, "color", cfg.ColorMode, "Color output: auto|always|never")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output (including FX logs)")
}

func runApp(lifecycle fx.Lifecycle, app *engine.App, shutdown fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)

				if err := app.Run(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
				}

				_ = shutdown.Shutdown()
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			app.Stop()

			select {
			case <-done:
			case <-stopCtx.Done():
				cancel()
				select {
				case <-done:
				case <-time.After(2 * time.Second):
				}
			}

			return nil
		},
	})
}
