package observ

import (
	"strings"
	"testing"
)

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("check")
	timer.End(idx, "3 files")

	out := timer.Summary()
	if !strings.HasPrefix(out, "timings:\n") {
		t.Fatalf("unexpected prefix: %q", out)
	}
	if !strings.Contains(out, "check") || !strings.Contains(out, "// 3 files") {
		t.Fatalf("phase line missing: %q", out)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("total line missing: %q", out)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(0, "nothing started")
	timer.End(-1, "")

	out := timer.Summary()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("want only header and total lines, got: %q", out)
	}
}
