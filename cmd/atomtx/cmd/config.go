package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/atomtx/internal/app"
	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/status"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows project paths, the resolved plugin configuration, enabled passes, and the last run.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	raw, err := rawConfig()
	if err != nil {
		return err
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return err
	}
	ps, err := passes()
	if err != nil {
		return err
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}

	fmt.Printf("%s⚡ atomtx config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:       %s\n", root)
	fmt.Printf("  Cache:      %s\n", paths.DB)
	fmt.Printf("  Status:     %s\n", paths.Status)
	fmt.Printf("  Grammars:   %s\n", grammarDir(root))
	fmt.Printf("  Plugin:     %s%s%s\n", colorCyan, cfg, colorReset)
	fmt.Printf("  Passes:     %s\n", strings.Join(names, ", "))

	last, err := status.ReadJSON(paths.Status)
	if err != nil {
		return err
	}
	if last == nil {
		fmt.Printf("  Last run:   %snever%s\n", colorYellow, colorReset)
		return nil
	}
	finished := time.Unix(last.FinishedAt, 0).Format(time.DateTime)
	fmt.Printf("  Last run:   %s %s, %d files, %d changed, %d failed\n",
		last.Command, finished, last.Files, last.Changed, last.Failed)
	return nil
}
