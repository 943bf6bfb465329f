package cmd

import (
	"errors"
	"fmt"

	"github.com/spacedl/spacedl/batch"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/util"
)

// report prints one line per outcome and reports whether all succeeded.
func report(outcomes []batch.Outcome, printURL bool) (ok bool) {
	ok = true
	var saved int

	for _, o := range outcomes {
		name := o.SpaceID
		if o.Title != "" {
			name = fmt.Sprintf("%s %s", o.Title, style.Faint("("+o.SpaceID+")"))
		}

		switch {
		case o.Skipped:
			fmt.Printf("%s %s %s\n", icon.Get(icon.Skip), name, style.Faint("already downloaded"))
		case o.Err != nil:
			ok = false

			// A veto aborts the run and is printed by handleErr.
			var veto *hook.VetoError
			if errors.As(o.Err, &veto) {
				continue
			}

			fmt.Printf("%s %s %s: %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), name, style.Faint(o.Failure.String()), o.Err)
		case printURL:
			fmt.Println(o.Result.MasterURL)
		case o.Result.Output == "":
			fmt.Printf("%s %s wrote %s\n", icon.Get(icon.Mark), name, o.Result.Paths.Playlist)
		default:
			saved++
			fmt.Printf("%s %s saved to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), name, o.Result.Output)

			if o.Result.KeptRecorded {
				fmt.Printf("  %s\n", style.Faint("kept recorded part "+o.Result.Paths.Recorded))
			}
		}
	}

	if len(outcomes) > 1 && !printURL {
		fmt.Printf("\n%s of %d saved\n", util.Quantify(saved, "space", "spaces"), len(outcomes))
	}

	return ok
}
