// Package cli implements the hexgrid command-line interface.
//
// The CLI runs the cartogram pipeline from input files and serves it over
// HTTP. It is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - place: Assign entities to grid cells and write a layout.json
//   - render: Run the full pipeline and write SVG, GeoJSON or layout files
//   - visualize: Render an existing layout.json
//   - serve: Start the HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. At debug
// level the pipeline and cache observability hooks are routed to the
// logger.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 50 records (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// debugHooks logs pipeline and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load started", "input", path)
}

func (h *debugHooks) OnLoadComplete(_ context.Context, path string, records int, dur time.Duration, err error) {
	h.complete("load", err, "input", path, "records", records, "took", dur)
}

func (h *debugHooks) OnPlaceStart(_ context.Context, entities, columns, rows int) {
	h.logger.Debug("place started", "entities", entities, "columns", columns, "rows", rows)
}

func (h *debugHooks) OnPlaceComplete(_ context.Context, iterations int, dur time.Duration, err error) {
	h.complete("place", err, "iterations", iterations, "took", dur)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", strings.Join(formats, ","))
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, dur time.Duration, err error) {
	h.complete("render", err, "formats", strings.Join(formats, ","), "took", dur)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) complete(stage string, err error, keyvals ...any) {
	if err != nil {
		keyvals = append(keyvals, "error", err)
		h.logger.Debug(stage+" failed", keyvals...)
		return
	}
	h.logger.Debug(stage+" complete", keyvals...)
}
