//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

// detach moves cmd into its own process group so a terminal interrupt aimed
// at spiderweb does not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
