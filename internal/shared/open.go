package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand launches a command without waiting for it; swapped in tests.
var startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }

// OpenURL hands a media URL to the desktop's default handler, usually a player.
//
// Supports macOS, Linux, and Windows platforms.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("%w: cannot open %s on %s", ErrNotImplemented, url, rt)
	}

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
