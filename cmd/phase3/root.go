// Command phase3 runs the SBIR transition detection engine: it links
// completed SBIR awards to follow-on federal contracts and scores how
// likely each link is a real technology transition.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/phase3/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "phase3",
	Short: "Detect SBIR-to-contract technology transitions",
	Long: "phase3 links completed SBIR research awards to follow-on federal\n" +
		"contracts, scoring each candidate pair with a configurable multi-signal\n" +
		"model and emitting auditable evidence for every detection.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(genFixturesCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
