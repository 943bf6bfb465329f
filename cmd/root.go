// Package cmd implements the spacedl command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/batch"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/key"
	"github.com/spacedl/spacedl/log"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/util"
	"github.com/spacedl/spacedl/version"
	"github.com/spacedl/spacedl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("no-hooks", false, "Do not load Lua hook scripts")

	rootCmd.Flags().StringSliceP("input", "i", []string{}, "Space URL or identifier to download")
	rootCmd.Flags().StringP("user", "U", "", "Download the spaces linked from a user's recent tweets")
	rootCmd.MarkFlagsMutuallyExclusive("input", "user")

	rootCmd.Flags().StringP("output", "o", "", "Output filename template")
	lo.Must0(viper.BindPFlag(key.DownloadTemplate, rootCmd.Flags().Lookup("output")))

	rootCmd.Flags().StringP("dir", "d", "", "Output directory")
	lo.Must0(viper.BindPFlag(key.DownloadDir, rootCmd.Flags().Lookup("dir")))

	rootCmd.Flags().Bool("keep-recorded", true, "Keep the recorded part after merging a live space")
	lo.Must0(viper.BindPFlag(key.DownloadKeepRecorded, rootCmd.Flags().Lookup("keep-recorded")))

	rootCmd.Flags().Bool("write-playlist", false, "Keep the rewritten .m3u8 playlist")
	lo.Must0(viper.BindPFlag(key.DownloadWritePlaylist, rootCmd.Flags().Lookup("write-playlist")))

	rootCmd.Flags().Bool("strict", false, "Stop at the first failed ffmpeg job")
	lo.Must0(viper.BindPFlag(key.DownloadStrict, rootCmd.Flags().Lookup("strict")))

	rootCmd.Flags().Bool("verbose", false, "Forward ffmpeg output to the terminal")
	lo.Must0(viper.BindPFlag(key.DownloadForwardOutput, rootCmd.Flags().Lookup("verbose")))

	rootCmd.Flags().BoolP("write-metadata", "m", false, "Write the space metadata next to the output")
	rootCmd.Flags().BoolP("skip-download", "s", false, "Only write the playlist, do not run ffmpeg")
	rootCmd.Flags().BoolP("print-url", "u", false, "Print the master playlist URL and exit")
	rootCmd.Flags().Bool("interactive", false, "Choose which discovered spaces of a user to download")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.App + " [space url...]",
	Short: "Download live and recorded audio spaces",
	Long: constant.Logo + "\n\n" +
		style.New().Italic(true).Foreground(color.HiCyan).Render("    - Download live and recorded audio spaces with ffmpeg"),
	Example: `  spacedl -i https://twitter.com/i/spaces/1ZkKzXXbwqNKv
  spacedl -U jack --interactive
  spacedl -u 1ZkKzXXbwqNKv | mpv --playlist=-`,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var (
			inputs       = append(lo.Must(cmd.Flags().GetStringSlice("input")), args...)
			user         = strings.TrimPrefix(lo.Must(cmd.Flags().GetString("user")), "@")
			printURL     = lo.Must(cmd.Flags().GetBool("print-url"))
			skipDownload = lo.Must(cmd.Flags().GetBool("skip-download"))
			interactive  = lo.Must(cmd.Flags().GetBool("interactive"))
		)

		if len(inputs) == 0 && user == "" {
			handleErr(cmd.Help())
			return
		}

		if !printURL && !skipDownload {
			CheckDependencies()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		hooks, closeHooks := loadHooks(cmd)
		defer closeHooks()

		driver := newDriver(hooks, downloadOptions(cmd))

		var (
			outcomes []batch.Outcome
			err      error
		)
		if user != "" {
			if interactive {
				driver.Select = selectSpaces
			}

			outcomes, err = driver.User(ctx, user)
			if err == nil && len(outcomes) == 0 {
				fmt.Printf("%s no spaces found for @%s\n", icon.Get(icon.Question), user)
			}
		} else {
			if driver.Archive != nil {
				driver.Archive = recordOnly{driver.Archive}
			}
			outcomes, err = driver.Run(ctx, nil, inputs)
		}

		ok := report(outcomes, printURL)
		if err != nil {
			closeHooks()
			handleErr(err)
		}

		if !ok {
			closeHooks()
			os.Exit(1)
		}
	},
}

// Execute runs the command tree.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)

	var veto *hook.VetoError
	if errors.As(err, &veto) && veto.Silent {
		os.Exit(1)
	}

	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
