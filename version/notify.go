package version

import (
	"fmt"

	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/icon"
	"github.com/spacedl/spacedl/key"
	"github.com/spacedl/spacedl/style"
	"github.com/spacedl/spacedl/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. It is a no-op unless cli.version_check is set.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/spacedl/spacedl/releases/tag/v"+version),
	)
}
