package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexgrid/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	prog.done("Loaded 3 records")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	if !bytes.Contains(buf.Bytes(), []byte("Loaded 3 records (")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestDebugHooks(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		fire  func(*debugHooks)
		want  []string
	}{
		{
			name:  "place complete",
			level: log.DebugLevel,
			fire: func(h *debugHooks) {
				h.OnPlaceComplete(context.Background(), 7, time.Millisecond, nil)
			},
			want: []string{"place complete", "iterations=7"},
		},
		{
			name:  "load failed",
			level: log.DebugLevel,
			fire: func(h *debugHooks) {
				h.OnLoadComplete(context.Background(), "in.csv", 0, time.Millisecond, errors.New("boom"))
			},
			want: []string{"load failed", "in.csv", "boom"},
		},
		{
			name:  "render formats",
			level: log.DebugLevel,
			fire: func(h *debugHooks) {
				h.OnRenderStart(context.Background(), []string{"svg", "json"})
			},
			want: []string{"render started", "svg,json"},
		},
		{
			name:  "cache set",
			level: log.DebugLevel,
			fire: func(h *debugHooks) {
				h.OnCacheSet(context.Background(), "layout", 512)
			},
			want: []string{"cache set", "layout", "512"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fire(&debugHooks{logger: newLogger(&buf, tt.level)})
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestDebugHooksSilentAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := &debugHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnCacheHit(context.Background(), "artifact")
	h.OnPlaceStart(context.Background(), 3, 2, 2)

	if buf.Len() != 0 {
		t.Errorf("debug hooks logged at info level: %q", buf.String())
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	c := New(&bytes.Buffer{}, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Pipeline().(*debugHooks); ok {
		t.Error("info level should not register debug hooks")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(*debugHooks); !ok {
		t.Errorf("Pipeline() = %T, want *debugHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(*debugHooks); !ok {
		t.Errorf("Cache() = %T, want *debugHooks", observability.Cache())
	}
}
