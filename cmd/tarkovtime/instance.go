package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ///////////////////////////////////////////////
// Single instance
// ///////////////////////////////////////////////

// errRunning is returned by acquireInstance when another agent holds the lock.
type errRunning struct {
	PID int
}

func (e *errRunning) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("already running (pid %d)", e.PID)
	}
	return "already running"
}

// instance is the locked PID file of the running agent. Keep it open for the
// life of the process.
type instance struct {
	path  string
	token string
	f     *os.File
}

// acquireInstance locks the PID file at path and records "PID:TOKEN" in it.
// If another process holds the lock it returns *errRunning.
func acquireInstance(path string) (*instance, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open PID file: %w", err)
	}
	if err := tryLock(f); err != nil {
		f.Close()
		return nil, &errRunning{PID: readPID(path)}
	}

	inst := &instance{path: path, token: newToken(), f: f}
	if err := inst.record(); err != nil {
		inst.release()
		return nil, err
	}
	return inst, nil
}

func (i *instance) record() error {
	if err := i.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate PID file: %w", err)
	}
	if _, err := i.f.WriteAt([]byte(fmt.Sprintf("%d:%s", os.Getpid(), i.token)), 0); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// release unlocks the PID file and deletes it if it still carries our token.
func (i *instance) release() {
	if i.f != nil {
		_ = unlock(i.f)
		i.f.Close()
		i.f = nil
	}
	data, err := os.ReadFile(i.path)
	if err != nil {
		return
	}
	if _, tok, ok := strings.Cut(string(data), ":"); ok && tok == i.token {
		os.Remove(i.path)
	}
}

// readPID returns the PID stored in the file at path, or 0.
func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, _, _ := strings.Cut(string(data), ":")
	n, err := strconv.Atoi(strings.TrimSpace(pid))
	if err != nil {
		return 0
	}
	return n
}

func newToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isRunning(err error) bool {
	var r *errRunning
	return errors.As(err, &r)
}
