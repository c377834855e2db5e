//go:build !cgo

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect tree-sitter grammars (requires CGo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Grammar support requires tree-sitter (CGo).")
		fmt.Println("Rebuild with CGO_ENABLED=1.")
		return nil
	},
}
