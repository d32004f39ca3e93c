// Copyright (C) 2024 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"time"

	"github.com/evalsuite/batchmeter/server/app/configfx"
	"github.com/evalsuite/batchmeter/server/app/logfx"
	"github.com/evalsuite/batchmeter/server/app/loopsfx"
	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/app/signalsfx"
	"github.com/evalsuite/batchmeter/server/svcctx"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var (
	version   = "dev"
	buildTime = ""
)

// parseFlagsAndPrintVersion parses command-line flags and prints the version
// information if the --version flag is set.
func parseFlagsAndPrintVersion() string {
	versionFlag := pflag.Bool("version", false, "print version and exit")
	configFlag := pflag.String("config", "", "path to configuration file")

	pflag.Parse()

	if *versionFlag {
		fmt.Println("Version: ", version)

		if buildTime != "" {
			fmt.Println("Build time: ", buildTime)
		}

		os.Exit(0)
	}

	return *configFlag
}

func rootContextOption(ctx context.Context, cancel context.CancelFunc) fx.Option {
	return fx.Provide(
		func() context.Context {
			return ctx
		},
		func() context.CancelFunc {
			return cancel
		},
	)
}

// main is the entry point of the application. It wires configuration,
// logging, the pipeline and the HTTP server into an fx application and runs
// it until the root context is cancelled.
func main() {
	configPath := parseFlagsAndPrintVersion()

	ctx, cancel := svcctx.GetCtxWithCancel()
	stopTimeout := 10 * time.Second

	fApp := fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return logfx.NewFxEventLogger(logger)
		}),
		rootContextOption(ctx, cancel),
		fx.Supply(configfx.Params{ConfigPath: configPath}),
		configfx.Module,
		logfx.Module,
		opsfx.Module,
		signalsfx.Module(),
		fx.Provide(
			newAssessor,
			newRegistry,
			newPipeline,
			newRunsHandler,
			newHealthHandler,
			newMetricsHandler,
			newEngine,
			newHTTPServer,
			loopsfx.NewDefaultStatsService,
		),
		fx.Invoke(registerRuntimeLifecycle),
	)

	if err := fApp.Start(context.Background()); err != nil {
		stdlog.Fatalln("Unable to start fx app. Error:", err)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()

	if err := fApp.Stop(stopCtx); err != nil {
		stdlog.Printf("Unable to stop fx app. Error: %v", err)
	}
}
