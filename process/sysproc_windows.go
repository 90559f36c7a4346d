//go:build windows

package process

import "os/exec"

// configureProcessGroup keeps the exec default on windows: cancellation
// kills the process.
func configureProcessGroup(c *exec.Cmd) {
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return c.Process.Kill()
	}
}
