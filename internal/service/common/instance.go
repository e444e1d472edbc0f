//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning indicates another process of the same executable is alive.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister returns a snapshot of the running processes.
type processLister func() ([]ps.Process, error)

// EnsureSingleInstance fails when another process runs the current executable.
// The controller owns its GPIO lines exclusively, so two instances would fight over them.
func EnsureSingleInstance() error {
	thisProcessID := os.Getpid()

	self, err := ps.FindProcess(thisProcessID)
	if err != nil {
		return fmt.Errorf("find current process: %w", err)
	}

	// Some platforms cannot describe the current process; nothing to compare against.
	if self == nil {
		return nil
	}

	return ensureSole(self.Executable(), thisProcessID, ps.Processes)
}

// ensureSole checks the process list for another process named executable.
func ensureSole(executable string, thisProcessID int, list processLister) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != executable {
			continue
		}

		return fmt.Errorf("%s (pid %d): %w", executable, process.Pid(), ErrAlreadyRunning)
	}

	return nil
}
