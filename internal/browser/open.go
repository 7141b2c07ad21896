// Package browser hands URLs to the user's default browser, used for the
// help-overlay links and the support/terms/privacy subcommands.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the default browser at url. Best effort: callers that have a
// terminal fall back to printing the URL.
func Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("no browser launcher for %s", runtime.GOOS)
	}
}
