package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var banner = `       _         _   _ _
  ___ | |_ _   _| |_(_) |
 / __|| __| | | | __| | |
 \__ \| |_| |_| | |_| | |
 |___/ \__|\__,_|\__|_|_|`

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		bannerStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
		versionStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

		fmt.Fprintln(cmd.OutOrStdout(), bannerStyle.Render(banner))
		fmt.Fprintln(cmd.OutOrStdout(), versionStyle.Render("version "+Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = Version
}
