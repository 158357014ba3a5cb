package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeffnv/blockclock/internal/pattern"
)

var printCmd = &cobra.Command{
	Use:   "print [HH:MM:SS]",
	Short: "Print the cube pattern of a time",
	Long: `Print the dot-matrix pattern the clock lights for a time string, one
character per cube. Without an argument the current time is used. Any string
of digits and colons is accepted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s := pattern.FormatTime(wallClock.Now().In(location(cfg)).Clock())
	if len(args) == 1 {
		s = args[0]
	}

	v := cfg.Clock.Color.Value
	lit := color.RGB((v>>16)&0xff, (v>>8)&0xff, v&0xff)
	printGrid(cmd.OutOrStdout(), pattern.Encode(s), lit)
	return nil
}

func printGrid(w io.Writer, g pattern.Grid, lit *color.Color) {
	var sb strings.Builder
	for _, row := range g {
		for _, on := range row {
			if on {
				sb.WriteString(lit.Sprint("█"))
			} else {
				sb.WriteString("·")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(w, sb.String())
}
