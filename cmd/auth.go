package cmd

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spacedl/spacedl/auth"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authGetCmd, authDeleteCmd)
	authGetCmd.Flags().BoolP("reveal", "r", false, "Print the whole credential")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the bearer credential override kept in the system keyring",
}

var authSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a bearer credential override",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.SetBearer(args[0]))
		fmt.Printf("%s stored bearer override\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored bearer credential override",
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.GetBearer()
		if auth.IsMissing(err) {
			handleErr(errors.New("no bearer override stored, the built-in credential is used"))
		}
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("reveal")) && len(token) > 12 {
			token = token[:6] + "..." + token[len(token)-6:]
		}
		fmt.Println(token)
	},
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the bearer credential override",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		err := auth.DeleteBearer()
		if auth.IsMissing(err) {
			err = nil
		}
		handleErr(err)
		fmt.Printf("%s deleted bearer override\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
