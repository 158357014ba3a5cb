package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/jeffnv/blockclock/internal/printer"
	"github.com/jeffnv/blockclock/internal/record"
	"github.com/jeffnv/blockclock/internal/render/stream"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Print the frames of a recording made with serve --record",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	n := 0
	err = record.Each(args[0], func(f stream.Frame) error {
		n++
		fmt.Fprintf(out, "%6d  %s  %3d/%d visible\n", f.Seq, f.Time, f.Visible(hiddenBelow(f, cfg.Clock.HiddenOffset)), len(f.Blocks))
		return nil
	})
	if err != nil {
		return printer.Error("Could not read recording", err, "Pass a .jsonl.zst file written by 'blockclock serve --record'")
	}

	printer.Success("%d frames\n", n)
	return nil
}

// hiddenBelow returns the z below which a block of f counts as pushed out of
// view: halfway between the nearest block and the hidden plane.
func hiddenBelow(f stream.Frame, hiddenOffset float64) float64 {
	maxZ := math.Inf(-1)
	for _, b := range f.Blocks {
		maxZ = math.Max(maxZ, b.Pos[2])
	}
	return maxZ - hiddenOffset/2
}
