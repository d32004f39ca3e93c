package engine

import (
	"testing"
	"time"
)

func TestHumanMs(t *testing.T) {
	if got := humanMs(999); got != "999ms" {
		t.Fatalf("humanMs(999) = %q", got)
	}

	if got := humanMs(1500); got != "1.50s" {
		t.Fatalf("humanMs(1500) = %q", got)
	}
}

func TestHumanElapsed(t *testing.T) {
	if got := humanElapsed(90 * time.Second); got != "01m30s" {
		t.Fatalf("humanElapsed(90s) = %q", got)
	}

	if got := humanElapsed(time.Hour + time.Minute); got != "01h01m00s" {
		t.Fatalf("humanElapsed(1h1m) = %q", got)
	}
}

func TestHumanCount(t *testing.T) {
	if got := humanCount(999); got != "999" {
		t.Fatalf("humanCount(999) = %q", got)
	}

	if got := humanCount(1500); got != "1.5K" {
		t.Fatalf("humanCount(1500) = %q", got)
	}

	if got := humanCount(2500000); got != "2.5M" {
		t.Fatalf("humanCount(2500000) = %q", got)
	}
}

func TestPrintLatencyHistogramDoesNotPanic(t *testing.T) {
	InitColorStyles(false)

	PrintLatencyHistogram(nil)
	PrintLatencyHistogram([]float64{5})
	PrintLatencyHistogram([]float64{5, 5, 5})
	PrintLatencyHistogram([]float64{1, 2, 3, 100, 2000})
}
