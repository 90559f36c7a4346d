//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the child in its own process group so a
// cancellation reaches the whole tree, and interrupts with SIGTERM.
func configureProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
}
