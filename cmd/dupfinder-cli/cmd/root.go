package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dupfinder-cli",
	Short: "Find and separate visually duplicate photos",
	Long: `dupfinder-cli scans a folder tree for visually duplicate images,
keeps the best copy of each duplicate group and relocates the rest
into a separate folder.

Two images count as duplicates when their 256-bit perceptual hashes
differ in at most the threshold number of bits. Near-identical shots,
re-encodes and resized exports land in the same group; the kept
original is the largest file, oldest first on ties.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
