// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener shows a file to the user.
type Opener interface {
	Open(path string) error
}

// SystemOpener opens files with the platform's default application. The
// zero value is ready to use.
type SystemOpener struct {
	// command builds the opener process; nil selects the platform default.
	command func(path string) *exec.Cmd
	// exited, when set, receives the opener's exit status once reaped.
	exited func(error)
}

// Open starts the platform opener for path and does not wait for it. The
// child is reaped in the background.
func (o SystemOpener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("checking file: %w", err)
	}

	command := o.command
	if command == nil {
		command = platformOpenCommand
	}
	cmd := command(path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	go func() {
		err := cmd.Wait()
		if o.exited != nil {
			o.exited(err)
		}
	}()
	return nil
}

func platformOpenCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// NopOpener ignores open requests, for headless runs.
type NopOpener struct{}

// Open does nothing.
func (NopOpener) Open(string) error { return nil }
