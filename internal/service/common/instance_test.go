//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess is a static ps.Process.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

// listOf returns a lister over the given processes.
func listOf(processes ...ps.Process) processLister {
	return func() ([]ps.Process, error) {
		return processes, nil
	}
}

// TestEnsureSole verifies only other processes with the same name block startup.
func TestEnsureSole(t *testing.T) {
	t.Parallel()

	self := fakeProcess{pid: 10, name: "intrusion-alarm"}

	require.NoError(t, ensureSole("intrusion-alarm", 10, listOf(self, fakeProcess{pid: 11, name: "sshd"})))

	err := ensureSole("intrusion-alarm", 10, listOf(self, fakeProcess{pid: 12, name: "intrusion-alarm"}))
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.ErrorContains(t, err, "pid 12")
}

// TestEnsureSole_ListError verifies process listing failures are wrapped.
func TestEnsureSole_ListError(t *testing.T) {
	t.Parallel()

	errList := errors.New("no procfs")

	err := ensureSole("intrusion-alarm", 1, func() ([]ps.Process, error) {
		return nil, errList
	})
	require.ErrorIs(t, err, errList)
}

// TestEnsureSingleInstance runs against the real process table; the test binary is unique.
func TestEnsureSingleInstance(t *testing.T) {
	t.Parallel()

	require.NoError(t, EnsureSingleInstance())
}
