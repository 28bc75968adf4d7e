package atlaspack

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLoggerDefaultsToSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() should never return nil")
	}
	if Logger().Enabled(nil, slog.LevelError) {
		t.Fatal("default logger should report every level disabled")
	}
}

func TestSetLoggerRoundTrips(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(l)
	if Logger() != l {
		t.Fatal("Logger() should return the logger passed to SetLogger")
	}

	Logger().Debug("probe")
	if buf.Len() == 0 {
		t.Fatal("expected a log line to be written after SetLogger")
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(slog.Default())
	SetLogger(nil)
	if Logger().Enabled(nil, slog.LevelError) {
		t.Fatal("SetLogger(nil) should restore the silent default")
	}
}
