package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topcat/pkg/observability"
)

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

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Generation successful", "files", 3)

	if out := buf.String(); !strings.Contains(out, "Generation successful") || !strings.Contains(out, "files=3") || !strings.Contains(out, "elapsed=") {
		t.Errorf("progress output = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	h.OnFileSkipped(ctx, "sql/notes.sql", "no name defined")
	h.OnBuildComplete(ctx, observability.BuildStats{Files: 3, Nodes: 2, Skipped: 1, Edges: 1, Layers: 3}, time.Millisecond, nil)
	h.OnSortComplete(ctx, 2, time.Microsecond, nil)

	out := buf.String()
	for _, want := range []string{"file skipped", "sql/notes.sql", "build complete", "nodes=2", "sort complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	h.OnBuildComplete(ctx, observability.BuildStats{Files: 1}, time.Millisecond, errors.New("boom"))
	h.OnSortComplete(ctx, 0, time.Microsecond, errors.New("boom"))
	if out := buf.String(); !strings.Contains(out, "build failed") || strings.Contains(out, "sort complete") {
		t.Errorf("failure output = %q", out)
	}
}
