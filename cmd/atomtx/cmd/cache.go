package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/atomtx/internal/adapters/bbolt"
	"github.com/corey/atomtx/internal/app"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the transform cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached transform outputs",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

// clearForce skips the confirmation prompt of cache clear.
var clearForce bool

func init() {
	cacheClearCmd.Flags().BoolVar(&clearForce, "force", false, "Skip confirmation prompt")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, dbPath, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("%s⚡ atomtx cache%s\n", colorBold, colorReset)
	fmt.Printf("  Path:     %s\n", dbPath)
	fmt.Printf("  Entries:  %d\n", stats.Entries)
	fmt.Printf("  Size:     %s\n", humanBytes(stats.Bytes))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if !clearForce {
		fmt.Printf("⚠ This will delete all cached outputs for %s. Continue? [y/N] ", filepath.Base(projectRoot()))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Printf("%s✓ cleared %d entries%s\n", colorGreen, stats.Entries, colorReset)
	return nil
}

// openStore opens the project cache directly. It needs neither a parser nor
// a plugin configuration.
func openStore() (*bbolt.Store, string, error) {
	root := projectRoot()
	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, "", fmt.Errorf("create .atomtx dirs: %w", err)
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return nil, "", fmt.Errorf("cannot open cache: %s", diagnoseDBLock(root))
		}
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return store, paths.DB, nil
}

// humanBytes formats a byte count with a binary unit.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
