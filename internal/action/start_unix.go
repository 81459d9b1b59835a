//go:build unix

package action

import (
	"os/exec"
	"syscall"
)

// startDetached starts cmd in its own session so it outlives the launcher.
func startDetached(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
