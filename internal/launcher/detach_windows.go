//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// rawShellLine bypasses the argument escaping of os/exec, which would turn
// the quotes inside target into \" that cmd.exe passes on literally.
func rawShellLine(cmd *exec.Cmd, target string) {
	cmd.SysProcAttr.CmdLine = windowsShellLine(target)
}
