package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/config"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "print the fields as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completeKeys)

	for _, c := range []*cobra.Command{configGetCmd, configSetCmd, configResetCmd} {
		c.Flags().StringP("key", "k", "", "config key, instead of the first argument")
		_ = c.RegisterFlagCompletionFunc("key", completeKeys)
		configCmd.AddCommand(c)
	}
	configSetCmd.Flags().StringSliceP("value", "v", nil, "value, instead of the remaining arguments")

	configResetCmd.Flags().BoolP("all", "a", false, "reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")

	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "replace an existing config file")

	configCmd.AddCommand(configDeleteCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit spacedl settings",
	Long: `Settings live in a TOML file (see "spacedl where --config").
Every key can also be set through the environment, e.g. SPACEDL_DOWNLOAD_DIR.`,
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, _ []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = lo.Keys(config.Default)
		}
		slices.Sort(keys)

		fields := lo.Map(keys, func(k string, _ int) config.Field {
			return lookupField(k)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i := range fields {
			if i > 0 {
				fmt.Print("\n\n")
			}
			fmt.Print(fields[i].Pretty())
		}
		fmt.Println()
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, _ := keyArg(cmd, args)
		lookupField(k)
		fmt.Println(viper.Get(k))
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Change a setting and save it",
	Example:           "  spacedl config set download.parallel 4\n  spacedl config set -k download.strict -v true",
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, rest := keyArg(cmd, args)
		lookupField(k)

		raw := rest
		if len(raw) == 0 {
			raw = lo.Must(cmd.Flags().GetStringSlice("value"))
		}

		value, err := config.Parse(k, raw)
		handleErr(err)

		viper.Set(k, value)
		handleErr(config.Save())

		fmt.Printf("%s %s = %s\n", done(), style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Put a setting, or all of them, back to its default",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(config.Save())
			fmt.Printf("%s every setting is back to its default\n", done())
			return
		}

		k, _ := keyArg(cmd, args)
		field := lookupField(k)

		viper.Set(k, field.Value)
		handleErr(config.Save())

		fmt.Printf("%s %s = %s %s\n", done(), style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(field.Value)), style.Faint("(default)"))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Save the effective settings to the config file",
	Run: func(cmd *cobra.Command, _ []string) {
		path := config.File()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf("%s saved %s\n", done(), path)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Remove the config file, falling back to defaults and environment",
	Run: func(cmd *cobra.Command, _ []string) {
		path := config.File()
		handleErr(filesystem.API().Remove(path))
		fmt.Printf("%s removed %s\n", done(), path)
	},
}

// keyArg takes the key from the first argument or the --key flag and
// returns the arguments left after it.
func keyArg(cmd *cobra.Command, args []string) (string, []string) {
	if k := lo.Must(cmd.Flags().GetString("key")); k != "" {
		return k, args
	}
	if len(args) == 0 {
		handleErr(errors.New("no config key given"))
	}
	return args[0], args[1:]
}

// lookupField exits with a suggestion when k is not a known key.
func lookupField(k string) config.Field {
	field, ok := config.Default[k]
	if !ok {
		closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
			return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
		})
		handleErr(fmt.Errorf("%w %s, closest is %s", config.ErrUnknownKey, style.Fg(color.Red)(k), style.Fg(color.Yellow)(closest)))
	}
	return field
}

func completeKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func done() string {
	return style.Fg(color.Green)(icon.Get(icon.Success))
}
