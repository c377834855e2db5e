package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys <file>",
	Short: "Show the labels and cache keys a file would receive",
	Long:  "Runs the enabled passes over a file without writing anything and lists every rewrite site.",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	files, err := a.Transformer.CollectSources(args[0])
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("keys takes a single file, %s matched %d", args[0], len(files))
	}

	source, err := os.ReadFile(files[0])
	if err != nil {
		return err
	}
	res, err := a.Transformer.TransformFile(context.Background(), files[0], source)
	if err != nil {
		return err
	}
	if res.Skipped || len(res.Rewrites) == 0 {
		fmt.Printf("%s⚡ %s%s │ no atoms\n", colorBold, res.Path, colorReset)
		return nil
	}
	fmt.Print(formatRewrites(res.Path, source, res))
	return nil
}
