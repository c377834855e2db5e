package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/atomtx/internal/app"
)

// watchOutDir is required: rewriting sources in place would feed the
// watcher its own output.
var watchOutDir string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-transform sources as they change",
	Long: "Transforms every source below dir (default: the project root) into --out-dir,\n" +
		"then keeps the output in sync until interrupted.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutDir, "out-dir", "o", "", "Output directory (required)")
	_ = watchCmd.MarkFlagRequired("out-dir")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srcRoot := a.ProjectRoot
	if len(args) == 1 {
		if srcRoot, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}
	out, err := filepath.Abs(watchOutDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial full pass
	files, err := a.Transformer.CollectSources(srcRoot)
	if err != nil {
		return err
	}
	start := time.Now()
	outcomes := a.Transformer.TransformPaths(ctx, files)
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err == nil {
			_, o.Err = a.Transformer.WriteResult(o.Result, o.Path, out)
		}
		if o.Err != nil {
			fmt.Print(formatOutcome(*o, ""))
		}
	}
	fmt.Print(formatSummary(a.WriteStatus("watch", outcomes, time.Since(start))))
	fmt.Printf("%s⚡ watching %s%s → %s  (Ctrl-C to stop)\n", colorBold, srcRoot, colorReset, out)

	return a.Watch(ctx, srcRoot, out, func(ev app.WatchEvent) {
		fmt.Print(formatWatchEvent(ev))
	})
}

// formatWatchEvent renders one watch-mode event with a timestamp.
func formatWatchEvent(ev app.WatchEvent) string {
	ts := colorGray + time.Now().Format("15:04:05") + colorReset
	switch {
	case ev.Err != nil:
		return fmt.Sprintf("%s  %s✗ %s%s  %s\n", ts, colorYellow, ev.Path, colorReset, ev.Err)
	case ev.Removed:
		return fmt.Sprintf("%s  %s- %s%s\n", ts, colorGray, ev.Path, colorReset)
	default:
		return fmt.Sprintf("%s  %s%s%s  %d rewrites  → %s\n", ts, colorCyan, ev.Result.Path, colorReset, len(ev.Result.Rewrites), ev.Dest)
	}
}
