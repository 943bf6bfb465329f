package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/util"
	"github.com/spacedl/spacedl/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksNewCmd, hooksListCmd, hooksRunCmd)

	hooksNewCmd.Flags().StringP("name", "n", "", "Name of the new hook")
	hooksNewCmd.Flags().StringP("author", "a", "", "Author of the new hook")
	lo.Must0(hooksNewCmd.MarkFlagRequired("name"))

	hooksListCmd.SetOut(os.Stdout)
	hooksRunCmd.SetOut(os.Stdout)
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage Lua hook scripts",
	Long: `Manage Lua hook scripts.

Every *.lua file in the hooks directory is loaded in lexical order. A script
may define any of: ` + strings.Join(hookFunctions, ", ") + `.`,
}

var hookFunctions = []string{
	constant.BearerFn,
	constant.GuestTokenFn,
	constant.HeadersFn,
	constant.MetadataFn,
	constant.DynURLFn,
	constant.MasterURLFn,
	constant.PlaylistURLFn,
	constant.PlaylistFn,
	constant.UserIDFn,
	constant.UserTweetsFn,
	constant.SpaceURLsFn,
}

var hooksNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a hook script from a template",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			name   = lo.Must(cmd.Flags().GetString("name"))
			author = lo.Must(cmd.Flags().GetString("author"))
			path   = filepath.Join(where.Hooks(), util.SanitizeFilename(name)+constant.HookExtension)
		)

		if author == "" {
			author = lo.Ternary(os.Getenv("USER") != "", os.Getenv("USER"), "anonymous")
		}

		if exists, _ := filesystem.API().Exists(path); exists {
			handleErr(fmt.Errorf("hook %s already exists", path))
		}

		tmpl := template.Must(template.New("hook").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    func(a ...int) int { return util.Max(a...) },
		}).Parse(constant.HookTemplate))

		var b strings.Builder
		handleErr(tmpl.Execute(&b, struct {
			Name        string
			Author      string
			MetadataFn  string
			SpaceURLsFn string
		}{
			Name:        name,
			Author:      author,
			MetadataFn:  constant.MetadataFn,
			SpaceURLsFn: constant.SpaceURLsFn,
		}))

		handleErr(filesystem.API().WriteFile(path, []byte(b.String()), 0644))
		fmt.Printf("%s created %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded hook scripts and the points they handle",
	Run: func(cmd *cobra.Command, args []string) {
		_, scripts, err := hook.Load(where.Hooks())
		handleErr(err)

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 20 {
			width = w
		}

		for _, s := range scripts {
			defines := s.Defines()
			cmd.Printf("%s %s %s\n", icon.Get(icon.Hook), style.Bold(s.Name()), style.Faint(s.Path()))

			if len(defines) == 0 {
				cmd.Println(indent.String(style.Faint("defines no hook functions"), 2))
			} else {
				cmd.Println(indent.String(wordwrap.String(strings.Join(defines, ", "), width-2), 2))
			}
			s.Close()
		}

		cmd.Println(style.Faint(util.Quantify(len(scripts), "hook", "hooks")))
	},
}

var hooksRunCmd = &cobra.Command{
	Use:   "run [script] [space url]",
	Short: "Resolve a space through a single hook script without downloading",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		script, err := hook.LoadScript(args[0])
		handleErr(err)
		defer script.Close()

		id, err := twitter.SpaceID(args[1])
		handleErr(err)

		var (
			ctx = context.Background()
			r   = space.New(session.New(id, script), newAPI(), resolverOptions())
		)

		stages := []struct {
			name    string
			resolve func() (string, error)
		}{
			{constant.MetadataFn, func() (string, error) {
				meta, err := r.Metadata(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s (%s)", meta.Title, meta.State), nil
			}},
			{constant.DynURLFn, func() (string, error) { return r.DynURL(ctx) }},
			{constant.MasterURLFn, func() (string, error) { return r.MasterURL(ctx) }},
			{constant.PlaylistURLFn, func() (string, error) { return r.PlaylistURL(ctx) }},
		}

		for _, stage := range stages {
			value, err := stage.resolve()
			if err != nil {
				var veto *hook.VetoError
				if errors.As(err, &veto) {
					cmd.Printf("%s %s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Hook)), style.Bold(stage.name), err)
					return
				}
				handleErr(err)
			}

			cmd.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(stage.name), value)
		}
	},
}
