package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "topt",
	Short: "Time Optimizer - plan your day by priority and energy",
	Long: `Time Optimizer (topt) fits your tasks into the 08:00-22:00 day.

High-energy work gets the morning (08:00-12:00), medium-energy work the
early afternoon (12:00-16:00), and low-energy work the evening
(16:00-22:00). Within your hour budget, the most important tasks that best
match each block are placed first, with an optional focus tag to favour
related work.

Typical flow:
  topt task add "Write report" --duration 2 --priority 5 --energy high --type Work
  topt plan --hours 6 --focus writing --save
  topt suggest`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("topt %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
