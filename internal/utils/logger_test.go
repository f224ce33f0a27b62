package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	out, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
	return &buf
}

func TestLogEvent(t *testing.T) {
	buf := captureLog(t)
	LogEvent("", "wizard", "start", "wizard_id=w-1")
	got := strings.TrimSpace(buf.String())
	if got != "[WIZARD] action=start request_id=- msg=wizard_id=w-1" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLogEventf(t *testing.T) {
	buf := captureLog(t)
	LogEventf("req-9", "reports", "summary", "stopped reading %s after %d pages", "bookings", 500)
	got := strings.TrimSpace(buf.String())
	if got != "[REPORTS] action=summary request_id=req-9 msg=stopped reading bookings after 500 pages" {
		t.Fatalf("unexpected line %q", got)
	}
}
