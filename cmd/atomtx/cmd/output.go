package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/corey/atomtx/internal/app"
	"github.com/corey/atomtx/internal/domain/rewrite"
	"github.com/corey/atomtx/internal/domain/status"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// formatSummary renders the status of a run on one line:
//
//	⚡ 12 files │ 3 changed │ 1 cached │ 8 skipped │ 7 rewrites │ 45ms
func formatSummary(data *status.StatusData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d files%s │ %s%d changed%s │ %d cached │ %d skipped │ %d rewrites",
		colorBold, data.Files, colorReset,
		colorGreen, data.Changed, colorReset,
		data.Cached, data.Skipped, data.Rewrites))
	if data.Failed > 0 {
		sb.WriteString(fmt.Sprintf(" │ %s%d failed%s", colorYellow, data.Failed, colorReset))
	}
	sb.WriteString(fmt.Sprintf(" │ %dms\n", data.DurationMs))
	return sb.String()
}

// formatOutcome renders one file of a run. Unchanged files render only with
// verbose output.
func formatOutcome(o app.FileOutcome, dest string) string {
	if o.Err != nil {
		return fmt.Sprintf("  %s✗ %s%s  %s\n", colorYellow, o.Path, colorReset, o.Err)
	}
	r := o.Result
	var tag string
	switch {
	case r.Cached:
		tag = colorGray + " (cached)" + colorReset
	case r.Skipped:
		tag = colorGray + " (skipped)" + colorReset
	}
	line := fmt.Sprintf("  %s%s%s  %d rewrites%s", colorCyan, r.Path, colorReset, len(r.Rewrites), tag)
	if dest != "" && dest != o.Path {
		line += fmt.Sprintf("  → %s", dest)
	}
	return line + "\n"
}

// formatRewrites lists what the passes did to one file, with 1-based line
// numbers taken from source.
func formatRewrites(path string, source []byte, r *app.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %d rewrites", colorBold, path, colorReset, len(r.Rewrites)))
	if r.Preamble {
		sb.WriteString(" │ cache preamble")
	}
	sb.WriteString("\n")

	for _, rw := range r.Rewrites {
		name := rw.Name
		if name == "" {
			name = colorGray + "(anonymous)" + colorReset
		}
		sb.WriteString(fmt.Sprintf("  %s:%d  %s%-11s%s  %s",
			path, lineOf(source, int(rw.Loc)), colorMagenta, rw.Pass, colorReset, name))
		if rw.Pass == rewrite.PassRefresh {
			sb.WriteString(fmt.Sprintf("  %s%q%s", colorCyan, rw.Key, colorReset))
		}
		var tags []string
		if rw.Exported {
			tags = append(tags, "#export")
		}
		if rw.Default {
			tags = append(tags, "#default")
		}
		if len(tags) > 0 {
			sb.WriteString(fmt.Sprintf("  %s%s%s", colorGreen, strings.Join(tags, " "), colorReset))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(source []byte, offset int) int {
	if offset < 0 {
		return 1
	}
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
