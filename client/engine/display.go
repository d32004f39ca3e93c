package engine

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
)

func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func TermSize() (w, h int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws == nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

func displayWidth(s string) int { return runewidth.StringWidth(s) }

func truncateToCells(s string, max int) string { return runewidth.Truncate(s, max, "") }

func padToCellsRight(s string, w int) string { return runewidth.FillRight(s, w) }

type colorStyle struct {
	open    string
	enabled bool
}

func (cs colorStyle) S(s string) string {
	if !cs.enabled {
		return s
	}
	return cs.open + s + "\x1b[0m"
}

var (
	StyleBold, StyleFaint                                   colorStyle
	StyleRed, StyleGreen, StyleYellow, StyleBlue, StyleCyan colorStyle
)

func InitColorStyles(enabled bool) {
	style := func(open string) colorStyle {
		return colorStyle{open: open, enabled: enabled}
	}
	StyleBold = style("\x1b[1m")
	StyleFaint = style("\x1b[2m")
	StyleRed = style("\x1b[31m")
	StyleGreen = style("\x1b[32m")
	StyleYellow = style("\x1b[33m")
	StyleBlue = style("\x1b[34m")
	StyleCyan = style("\x1b[36m")
}

func humanMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

func humanElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%02dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func humanCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func stateStyle(state string) colorStyle {
	switch state {
	case "completed":
		return StyleGreen
	case "failed":
		return StyleRed
	default:
		return StyleYellow
	}
}

// ClearScreen resets the terminal for the next dashboard frame.
func ClearScreen() {
	fmt.Print("\x1b[2J\x1b[3J\x1b[H")
}

// PrintRunTable renders one line per run, truncated to the terminal width.
func PrintRunTable(runs []RunSummary) {
	termW, _ := TermSize()

	fmt.Println(StyleBold.S(padToCellsRight("RUN", 29) + padToCellsRight("STATE", 11) + padToCellsRight("ITEMS", 8) + padToCellsRight("BATCH", 7) + "STARTED"))

	for _, run := range runs {
		statePad := 11 - displayWidth(run.State)
		if statePad < 1 {
			statePad = 1
		}

		line := padToCellsRight(truncateToCells(run.RunID, 27), 29) +
			stateStyle(run.State).S(run.State) + strings.Repeat(" ", statePad) +
			padToCellsRight(humanCount(int64(run.TotalItems)), 8) +
			padToCellsRight(humanCount(int64(run.BatchSize)), 7) +
			run.StartedAt.Format(time.RFC3339)

		if displayWidth(line) > termW {
			line = truncateToCells(line, termW)
		}

		fmt.Println(line)
	}
}

// PrintSnapshot renders the live counters of a run.
func PrintSnapshot(run *RunSummary, snapshot *Snapshot) {
	m := snapshot.Metrics

	fmt.Printf("%s %s  state=%s elapsed=%s\n",
		StyleBold.S("run"), run.RunID, stateStyle(run.State).S(run.State),
		humanElapsed(time.Duration(m.DurationMs)*time.Millisecond))
	var done, ok, failed, timeout int
	for _, batch := range snapshot.Batches {
		if batch.EndTime != nil {
			done++
		}

		ok += batch.SuccessCount
		failed += batch.ErrorCount
		timeout += batch.TimeoutCount
	}

	fmt.Printf("items ok=%d failed=%d timeout=%d samples=%d\n",
		ok, failed, timeout, len(snapshot.Latencies))
	fmt.Printf("batches total=%d done=%d\n", len(snapshot.Batches), done)

	if len(snapshot.Latencies) > 0 {
		fmt.Println()
		PrintLatencyHistogram(snapshot.Latencies)
	}
}

// PrintReport renders the final report of a run.
func PrintReport(report *Report) {
	s := report.Summary

	fmt.Println(StyleBold.S("summary"))
	fmt.Printf("  duration=%s throughput=%.2f items/s error_rate=%.2f%%\n",
		humanMs(s.DurationMs), s.Throughput, s.ErrorRate)
	fmt.Printf("  avg_latency=%s\n", humanMs(s.AverageResponseTimeMs))

	if s.MemorySample != nil {
		fmt.Printf("  memory=%.1f%% (%s of %s)\n", s.MemorySample.UsedPercent,
			humanCount(int64(s.MemorySample.UsedBytes/1024/1024)), humanCount(int64(s.MemorySample.TotalBytes/1024/1024)))
	}

	fmt.Println(StyleBold.S("timing"))
	fmt.Printf("  median=%s p95=%s fastest=%s slowest=%s stddev=%s\n",
		humanMs(report.Timing.MedianMs), humanMs(report.Timing.Percentile95Ms),
		humanMs(report.Timing.FastestMs), humanMs(report.Timing.SlowestMs),
		humanMs(report.Timing.StandardDeviationMs))

	fmt.Println(StyleBold.S("batches"))
	fmt.Printf("  avg_batch_time=%s\n", humanMs(report.Batches.AverageBatchTimeMs))

	printBatchLine := func(label string, batch *BatchRecord) {
		if batch == nil {
			return
		}

		fmt.Printf("  %s batch=%d duration=%s ok=%d err=%d timeout=%d\n",
			label, batch.BatchNumber, humanMs(batch.DurationMs),
			batch.SuccessCount, batch.ErrorCount, batch.TimeoutCount)
	}

	printBatchLine("fastest       ", report.Batches.Fastest)
	printBatchLine("slowest       ", report.Batches.Slowest)
	printBatchLine("most_efficient", report.Batches.MostEfficient)
}

// PrintLatencyHistogram renders a column histogram of the latency series.
func PrintLatencyHistogram(latencies []float64) {
	if len(latencies) == 0 {
		fmt.Println("[hist] no data")
		return
	}

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	minMs := sorted[0]
	maxMs := sorted[len(sorted)-1]

	termW, _ := TermSize()
	cols := termW - 10
	if cols > 60 {
		cols = 60
	}
	if cols < 10 {
		cols = 10
	}

	span := maxMs - minMs
	if span <= 0 {
		span = 1
	}

	counts := make([]int64, cols)
	var maxC int64
	for _, ms := range sorted {
		bin := int((ms - minMs) / span * float64(cols-1))
		counts[bin]++
		if counts[bin] > maxC {
			maxC = counts[bin]
		}
	}

	height := 8
	fmt.Printf("latency histogram  bins=%d samples=%d\n", cols, len(sorted))

	for row := height; row >= 1; row-- {
		thr := int64(math.Round(float64(maxC) * float64(row) / float64(height)))
		fmt.Printf("%5s ", humanCount(thr))
		fmt.Print(StyleBlue.S("│"))
		for i := 0; i < cols; i++ {
			h := int(math.Round(float64(counts[i]) / float64(maxC) * float64(height)))
			if h >= row {
				fmt.Print("█")
			} else {
				fmt.Print(" ")
			}
		}
		fmt.Println()
	}

	fmt.Printf("%5s %s%s\n", "", StyleBlue.S("└"), StyleBlue.S(strings.Repeat("─", cols)))

	p50 := sorted[len(sorted)/2]
	p95 := sorted[int(float64(len(sorted))*0.95)]
	fmt.Printf("%5s min=%s p50=%s p95=%s max=%s\n", "ms",
		humanMs(minMs), humanMs(p50), humanMs(p95), humanMs(maxMs))
}
