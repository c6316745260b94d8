package gate

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Handoff replaces the current process image with the given command,
// forwarding the argument vector verbatim and inheriting the environment.
// On success it does not return; the wrapped process takes over this
// process's identity, so no wrapper remains to forward signals or reap.
func Handoff(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no command to run")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", argv[0], err)
	}
	return syscall.Exec(path, argv, os.Environ())
}
