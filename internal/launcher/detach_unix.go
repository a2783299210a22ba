//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so that signals aimed at
// the daemon do not reach launched programs.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func rawShellLine(*exec.Cmd, string) {}
