package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

// PIDFile guards against a second daemon instance sharing the data dir.
type PIDFile struct {
	path string
}

// NewPIDFile creates a PID file manager in dir.
func NewPIDFile(dir string) *PIDFile {
	return &PIDFile{path: filepath.Join(dir, "cliphistd.pid")}
}

// Acquire writes the current PID after verifying no live instance owns the
// file. A stale PID from a crashed run is overwritten.
func (p *PIDFile) Acquire() error {
	pid, err := p.read()
	if err != nil {
		return err
	}
	if pid != 0 && pid != os.Getpid() && isRunning(pid) {
		return fmt.Errorf("process %d holds %s", pid, p.path)
	}

	return os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// read reads the PID from the PID file
func (p *PIDFile) read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}

	return pid, nil
}

// Remove removes the PID file
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isRunning checks if a process with the given PID is running
func isRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix systems, FindProcess always succeeds, so we need to check if the process actually exists
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
