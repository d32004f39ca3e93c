package engine

import (
	"context"
	"fmt"
	"time"
)

// App drives the monitor: it either fetches a final report once or follows
// runs with a periodic dashboard refresh.
type App struct {
	Config *Config
	Client *MonitorClient

	stopChan chan struct{}
}

func NewApp(cfg *Config, client *MonitorClient) *App {
	return &App{
		Config:   cfg,
		Client:   client,
		stopChan: make(chan struct{}),
	}
}

func (a *App) Stop() {
	select {
	case <-a.stopChan:
	default:
		close(a.stopChan)
	}
}

func (a *App) Run(ctx context.Context) error {
	if a.Config.ReportOnly {
		return a.printReport(ctx)
	}

	if a.Config.RunID == "" {
		return a.watchAll(ctx)
	}

	return a.watchRun(ctx)
}

func (a *App) printReport(ctx context.Context) error {
	if a.Config.RunID == "" {
		return fmt.Errorf("a run id is required for report mode")
	}

	report, err := a.Client.GetReport(ctx, a.Config.RunID, a.Config.SuccessfulItems)
	if err != nil {
		return err
	}

	PrintReport(report)

	return nil
}

// watchAll renders the run table until interrupted.
func (a *App) watchAll(ctx context.Context) error {
	ticker := time.NewTicker(a.Config.Interval)
	defer ticker.Stop()

	for {
		runs, err := a.Client.ListRuns(ctx)
		if err != nil {
			return err
		}

		if IsTTY() {
			ClearScreen()
		}

		PrintRunTable(runs)

		select {
		case <-ctx.Done():
			return nil
		case <-a.stopChan:
			return nil
		case <-ticker.C:
		}
	}
}

// watchRun renders the live snapshot of one run. With Follow enabled it keeps
// going until the run leaves the active state and then prints the report.
func (a *App) watchRun(ctx context.Context) error {
	ticker := time.NewTicker(a.Config.Interval)
	defer ticker.Stop()

	for {
		run, err := a.Client.GetRun(ctx, a.Config.RunID)
		if err != nil {
			return err
		}

		snapshot, err := a.Client.GetSnapshot(ctx, a.Config.RunID)
		if err != nil {
			return err
		}

		if IsTTY() {
			ClearScreen()
		}

		PrintSnapshot(run, snapshot)

		if run.State != "running" {
			if run.Report != nil {
				fmt.Println()
				PrintReport(run.Report)
			}

			return nil
		}

		if !a.Config.Follow {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-a.stopChan:
			return nil
		case <-ticker.C:
		}
	}
}
