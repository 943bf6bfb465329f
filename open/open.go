// Package open hands a downloaded file to the system default handler or to a named player.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spacedl/spacedl/constant"
)

// Start opens path with app, or with the default handler when app is empty. It does not wait.
func Start(path, app string) error {
	cmd, err := Command(runtime.GOOS, path, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the invocation opening path on goos.
func Command(goos, path, app string) (*exec.Cmd, error) {
	switch goos {
	case constant.Windows:
		if app != "" {
			return exec.Command("cmd", "/C", "start", "", app, path), nil
		}
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), nil
	case constant.Darwin:
		if app != "" {
			return exec.Command("open", "-a", app, path), nil
		}
		return exec.Command("open", path), nil
	case constant.Linux:
		if app != "" {
			return exec.Command(app, path), nil
		}
		return exec.Command("xdg-open", path), nil
	case constant.Android:
		return exec.Command("termux-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
