package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spacedl/spacedl/auth"
	"github.com/spacedl/spacedl/ffmpeg"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/key"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CheckDependencies exits when ffmpeg can not be found.
func CheckDependencies() {
	if _, err := ffmpeg.Check(viper.GetString(key.FFmpegPath)); err != nil {
		printMissingDependencyError("ffmpeg")
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install ffmpeg"
	case "linux":
		installCmd = "sudo apt install ffmpeg"
	case "windows":
		installCmd = "scoop install ffmpeg"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(wordwrap.String(fmt.Sprintf(
		"The required dependency '%s' was not found in your PATH. Set %s if it is installed elsewhere.",
		dep, key.FFmpegPath,
	), 60))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check ffmpeg, hook scripts and the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true
		line := func(passed bool, format string, a ...any) {
			mark := style.Fg(style.SuccessColor)(icon.Get(icon.Success))
			if !passed {
				mark = style.Fg(style.ErrorColor)(icon.Get(icon.Fail))
				ok = false
			}
			fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, a...))
		}

		path, err := ffmpeg.Check(viper.GetString(key.FFmpegPath))
		if err != nil {
			line(false, "ffmpeg: %s", err)
		} else {
			line(true, "ffmpeg: %s", path)
		}

		_, scripts, err := hook.Load(where.Hooks())
		if err != nil {
			line(false, "hooks: %s", err)
		} else {
			line(true, "hooks: %d loaded from %s", len(scripts), where.Hooks())
		}
		for _, s := range scripts {
			s.Close()
		}

		if _, err := auth.GetBearer(); err == nil {
			fmt.Printf("%s %s\n", icon.Get(icon.Mark), "bearer: keyring override")
		} else if auth.IsMissing(err) {
			fmt.Printf("%s %s\n", icon.Get(icon.Mark), "bearer: built-in")
		} else {
			line(false, "bearer: %s", err)
		}

		if !ok {
			os.Exit(1)
		}
	},
}
