//go:build !unix && !windows

package launcher

import "os/exec"

func detach(*exec.Cmd) {}

func rawShellLine(*exec.Cmd, string) {}
