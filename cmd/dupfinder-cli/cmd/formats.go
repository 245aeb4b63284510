package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dupfinder/internal/scan"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the image formats the scanner picks up",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(scan.SupportedExtensions(), " "))
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
