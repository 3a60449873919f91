package cmd

import (
	"fmt"
	"os"

	"github.com/STomoya/stutil/download"
	"github.com/STomoya/stutil/logging"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a file",
	Long: `Download a file into a directory. Google Drive file links are handled
through the confirm-token flow, so large files work too.

Examples:
  # Download into the current directory
  stutil download https://example.com/weights.pt

  # Download a Google Drive file under a chosen name
  stutil download https://drive.google.com/file/d/FILEID/view -o ./data -n weights.pt`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var (
	downloadRoot     string
	downloadFilename string
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadRoot, "out", "o", "", "Destination directory (default: download.root config)")
	downloadCmd.Flags().StringVarP(&downloadFilename, "name", "n", "", "Filename (default: derived from the URL)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	root := downloadRoot
	if root == "" {
		root = viper.GetString("download.root")
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		return downloadWithUI(cmd, rawURL, root)
	}
	return downloadPlain(cmd, rawURL, root)
}

// downloadPlain logs progress as structured lines, for pipes and CI.
func downloadPlain(cmd *cobra.Command, rawURL, root string) error {
	logger, err := logging.Get("stutil", logging.Options{})
	if err != nil {
		return err
	}

	logger.Info("downloading", "url", rawURL, "root", root)
	dst, err := download.URL(cmd.Context(), rawURL, root, download.Options{
		Filename: downloadFilename,
	})
	if err != nil {
		return err
	}
	logger.Info("saved", "path", dst)
	return nil
}

type downloadProgressMsg download.Progress

type downloadDoneMsg struct {
	path string
	err  error
}

type downloadModel struct {
	url     string
	bar     progress.Model
	current int64
	total   int64
	done    bool
	path    string
	err     error
}

func newDownloadModel(url string) downloadModel {
	return downloadModel{
		url: url,
		bar: progress.New(progress.WithDefaultGradient()),
	}
}

func (m downloadModel) Init() tea.Cmd {
	return nil
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("download canceled")
			return m, tea.Quit
		}
		return m, nil

	case downloadProgressMsg:
		m.current = msg.Current
		m.total = msg.Total
		if m.total > 0 {
			return m, m.bar.SetPercent(float64(m.current) / float64(m.total))
		}
		return m, nil

	case downloadDoneMsg:
		m.done = true
		m.path = msg.path
		m.err = msg.err
		if m.err == nil {
			return m, tea.Sequence(m.bar.SetPercent(1), tea.Quit)
		}
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.done && m.err == nil {
		return fmt.Sprintf("  %s\n  saved to %s\n", m.url, m.path)
	}

	line := fmt.Sprintf("  %s\n  ", m.url)
	if m.total > 0 {
		line += m.bar.View()
	}
	line += fmt.Sprintf(" %s", formatBytes(m.current))
	if m.total > 0 {
		line += fmt.Sprintf(" / %s", formatBytes(m.total))
	}
	return line + "\n"
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	value := float64(n)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	for _, suffix := range suffixes {
		value /= unit
		if value < unit || suffix == suffixes[len(suffixes)-1] {
			return fmt.Sprintf("%.1f%s", value, suffix)
		}
	}
	return fmt.Sprintf("%dB", n)
}

// downloadWithUI renders a progress bar while the download runs.
func downloadWithUI(cmd *cobra.Command, rawURL, root string) error {
	program := tea.NewProgram(newDownloadModel(rawURL), tea.WithContext(cmd.Context()))

	go func() {
		dst, err := download.URL(cmd.Context(), rawURL, root, download.Options{
			Filename: downloadFilename,
			OnProgress: func(p download.Progress) {
				program.Send(downloadProgressMsg(p))
			},
		})
		program.Send(downloadDoneMsg{path: dst, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(downloadModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
