package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spacedl/spacedl/archive"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/open"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveRemoveCmd, archiveOpenCmd)
	archiveOpenCmd.Flags().StringP("with", "w", "", "Application to open the file with")

	archiveListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	archiveListCmd.SetOut(os.Stdout)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the registry of downloaded spaces",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded spaces, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := archive.All()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s\n", icon.Get(icon.Archive), e)
			cmd.Printf("  %s %s\n", style.Faint(e.SavedAt.Format("2006-01-02 15:04")), e.Output)
		}

		cmd.Println(style.Faint(util.Quantify(len(entries), "space", "spaces")))
	},
}

var archiveRemoveCmd = &cobra.Command{
	Use:   "remove [space id...]",
	Short: "Forget downloaded spaces so user runs fetch them again",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			handleErr(archive.Remove(id))
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), id)
		}
	},
}

var archiveOpenCmd = &cobra.Command{
	Use:   "open [space id]",
	Short: "Open a downloaded space with the default player",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := archive.All()
		handleErr(err)

		entry, ok := lo.Find(entries, func(e *archive.Entry) bool {
			return e.SpaceID == args[0]
		})
		if !ok {
			handleErr(errors.New("space " + args[0] + " is not in the archive"))
		}

		handleErr(open.Start(entry.Output, lo.Must(cmd.Flags().GetString("with"))))
	},
}
