package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	outDir    string
	writeFlag bool
	listFlag  bool
)

var transformCmd = &cobra.Command{
	Use:   "transform [path ...]",
	Short: "Rewrite atom declarations",
	Long: "Transforms the given files and directories (default: the project root).\n" +
		"A single file without --out-dir or --write is printed to stdout.",
	Args: cobra.ArbitraryArgs,
	RunE: runTransform,
}

func init() {
	f := transformCmd.Flags()
	f.StringVarP(&outDir, "out-dir", "o", "", "Write outputs below this directory, mirroring the project tree")
	f.BoolVarP(&writeFlag, "write", "w", false, "Rewrite changed sources in place")
	f.BoolVarP(&listFlag, "list", "l", false, "List every file, not only changed and failed ones")
}

func runTransform(cmd *cobra.Command, args []string) error {
	if outDir != "" && writeFlag {
		return fmt.Errorf("use either --out-dir or --write, not both")
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		args = []string{a.ProjectRoot}
	}
	files, err := a.Transformer.CollectSources(args...)
	if err != nil {
		return err
	}

	toStdout := outDir == "" && !writeFlag
	if toStdout && len(files) != 1 {
		return fmt.Errorf("%d files matched: pass --out-dir or --write", len(files))
	}

	start := time.Now()
	outcomes := a.Transformer.TransformPaths(context.Background(), files)

	if toStdout {
		o := outcomes[0]
		if o.Err != nil {
			return o.Err
		}
		_, err := os.Stdout.Write(o.Result.Output)
		a.WriteStatus("transform", outcomes, time.Since(start))
		return err
	}

	failed := 0
	for i := range outcomes {
		o := &outcomes[i]
		var dest string
		if o.Err == nil {
			dest, o.Err = a.Transformer.WriteResult(o.Result, o.Path, outDir)
		}
		if o.Err != nil {
			failed++
		}
		if o.Err != nil || listFlag || o.Result.Changed {
			fmt.Print(formatOutcome(*o, dest))
		}
	}

	data := a.WriteStatus("transform", outcomes, time.Since(start))
	fmt.Print(formatSummary(data))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}
