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

package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/evalsuite/batchmeter/server/definitions"
)

var (
	mu sync.Mutex

	// Logger is used for all messages that are printed to stdout. It is
	// replaced by SetupLogging and must never be nil.
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// ParseLevel maps a configuration level name to a slog.Level. Unknown names
// fall back to info so a typo in the config never silences the process.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging initializes the global "Logger" object.
func SetupLogging(levelName string, formatJSON bool, addSource bool, instance string) {
	mu.Lock()

	defer mu.Unlock()

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(levelName),
		AddSource: addSource,
	}

	var handler slog.Handler

	if formatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler).With(definitions.LogKeyInstance, instance)
}
