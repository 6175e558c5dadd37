//go:build !unix

package shell

import "os/exec"

// configureProcessGroup is a no-op where process groups are unavailable;
// exec.CommandContext kills the direct child and WaitDelay releases the pipes.
func configureProcessGroup(*exec.Cmd) {}
