package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topcat/pkg/observability"
)

// logHooks reports build events through the CLI logger.
type logHooks struct {
	logger *log.Logger
}

var _ observability.BuildHooks = logHooks{}

func newLogHooks(l *log.Logger) logHooks {
	return logHooks{logger: l}
}

func (h logHooks) OnFileSkipped(_ context.Context, path, reason string) {
	h.logger.Debug("file skipped", "path", path, "reason", reason)
}

func (h logHooks) OnBuildComplete(_ context.Context, stats observability.BuildStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "files", stats.Files, "elapsed", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("build complete",
		"files", stats.Files,
		"nodes", stats.Nodes,
		"skipped", stats.Skipped,
		"edges", stats.Edges,
		"layers", stats.Layers,
		"elapsed", d.Round(time.Millisecond),
	)
}

func (h logHooks) OnSortComplete(_ context.Context, files int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("sort complete", "files", files, "elapsed", d.Round(time.Microsecond))
}
