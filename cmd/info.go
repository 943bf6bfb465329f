package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("schema", false, "Print the JSON schema of the metadata document")
	infoCmd.SetOut(os.Stdout)
}

var infoCmd = &cobra.Command{
	Use:   "info [space url]",
	Short: "Print the metadata of a space as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := jsonschema.Reflector{DoNotReference: true}
			handleErr(encoder.Encode(reflector.Reflect(&twitter.Metadata{})))
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		id, err := twitter.SpaceID(args[0])
		handleErr(err)

		hooks, closeHooks := loadHooks(cmd)
		defer closeHooks()

		r := space.New(session.New(id, hooks), newAPI(), resolverOptions())
		meta, err := r.Metadata(context.Background())
		handleErr(err)

		handleErr(encoder.Encode(meta))
	},
}
