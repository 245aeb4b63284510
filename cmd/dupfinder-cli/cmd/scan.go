package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dupfinder/internal/adapters/phash"
	"dupfinder/internal/config"
	"dupfinder/internal/scan"
)

var (
	scanThreshold int
	scanCopy      bool
	scanDryRun    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <source> <output>",
	Short: "Scan a folder and relocate duplicate images",
	Long: `Scan the source folder recursively, group visually duplicate images
and move every duplicate (keeping one original per group) into the
output folder. Name collisions in the output folder get _1, _2, ...
suffixes; nothing is ever overwritten.

The output folder is excluded from the scan, so a previous run's
results are never rescanned. Ctrl-C cancels at the next file boundary.

Examples:
  dupfinder-cli scan ~/Pictures ~/Pictures/duplicates
  dupfinder-cli scan --copy --threshold 12 ~/Pictures /tmp/similar
  dupfinder-cli scan --dry-run ~/Pictures ~/Pictures/duplicates`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := scan.ModeMove
		if scanCopy {
			mode = scan.ModeCopy
		}
		opts := scan.Options{
			Source:    args[0],
			Output:    args[1],
			Threshold: scanThreshold,
			Mode:      mode,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		r := &eventRenderer{}
		job := scan.New(phash.NewProvider(), scan.SinkFunc(r.render), opts)

		if scanDryRun {
			det, err := job.Detect(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			printDetection(det, mode)
			return nil
		}

		if _, err := job.Execute(ctx); err != nil {
			// Ctrl-C already reported itself through the event stream.
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVarP(&scanThreshold, "threshold", "t", config.Threshold(), "max differing bits for a duplicate match (0-256)")
	scanCmd.Flags().BoolVar(&scanCopy, "copy", false, "copy duplicates instead of moving them")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "report duplicate groups without relocating anything")
	rootCmd.AddCommand(scanCmd)
}
