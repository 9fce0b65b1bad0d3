package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/phase3/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Print the built-in scoring presets and their resolved weights",
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBASE\tSIGNAL\tWEIGHT\tHIGH\tLIKELY\tFLOOR\tWINDOW")

	for _, name := range config.PresetNames() {
		d := config.Presets()[name]

		signals := make([]string, 0, len(d.Weights))
		for s := range d.Weights {
			signals = append(signals, s)
		}
		sort.Strings(signals)

		for i, s := range signals {
			if i == 0 {
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%.2f\t%.2f\t%s\t%dmo\n",
					name, d.BaseScore, s, d.Weights[s],
					d.HighThreshold, d.LikelyThreshold, d.ConfidenceFloor, d.WindowMonths)
				continue
			}
			fmt.Fprintf(w, "\t\t%s\t%.2f\t\t\t\t\n", s, d.Weights[s])
		}
	}
	return w.Flush()
}
