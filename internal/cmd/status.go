package cmd

import (
	"fmt"
	"os"

	"github.com/STomoya/stutil/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status [file]",
	Short: "Show a run-status file",
	Long: `Print the status blocks recorded by a job, or follow the file as new
blocks are appended.

Examples:
  # Print the default status file
  stutil status

  # Follow a job running in a detached container
  stutil status /data/execstatus.txt -f`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

var statusFollow bool

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&statusFollow, "follow", "f", false, "Follow the file for new blocks (like tail -f)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := viper.GetString("status.path")
	if len(args) == 1 {
		path = args[0]
	}

	if !statusFollow {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	// Replay existing blocks, then keep printing as the job appends.
	return logging.Follow(cmd.Context(), path, logging.FollowOptions{FromStart: true}, func(line string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
		return err
	})
}
