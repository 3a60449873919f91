package cmd

import (
	"github.com/STomoya/stutil/notify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Send a LINE notification",
	Long: `Send a message through LINE Notify. The access token is read from the
--token flag, the notify.token config key, or the LINE_NOTIFY_TOKEN
environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotify,
}

var (
	notifyToken string
	notifyImage string
)

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().StringVar(&notifyToken, "token", "", "LINE Notify access token")
	notifyCmd.Flags().StringVar(&notifyImage, "image", "", "Image file to attach")
}

func runNotify(cmd *cobra.Command, args []string) error {
	token := notifyToken
	if token == "" {
		token = viper.GetString("notify.token")
	}

	return notify.Send(cmd.Context(), args[0], notify.Options{
		Token:     token,
		ImageFile: notifyImage,
	})
}
