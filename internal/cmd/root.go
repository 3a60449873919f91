package cmd

import (
	"strings"

	"github.com/STomoya/stutil/pathutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "stutil",
	Short: "Personal utility toolbox",
	Long: `Stutil bundles small everyday utilities: downloading files (including
Google Drive links), sending LINE notifications, and inspecting run-status
files written by long jobs.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/stutil/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(string(pathutil.ConfigDir("stutil")))
		viper.AddConfigPath("$HOME/.config/stutil")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("download.root", ".")
	viper.SetDefault("status.path", "./execstatus.txt")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("STUTIL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., STUTIL_DOWNLOAD_ROOT for download.root
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
