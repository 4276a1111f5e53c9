// Package ptysession owns a single PTY-backed shell process: a pair sized
// to (cols, rows), a dedicated reader goroutine feeding a channel, and
// synchronous writes.
package ptysession

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// readBufferSize is the chunk size the reader goroutine reads per Read
// call, per the PTY Session design (up to 64 KiB at a time).
const readBufferSize = 64 * 1024

// Chunk is one read result delivered on the Session's Output channel.
type Chunk struct {
	Data []byte
	Err  error // non-nil on the final Chunk (EOF or read error)
}

// Session owns one PTY + child shell process.
type Session struct {
	logger *slog.Logger

	cmd *exec.Cmd
	pty *os.File

	Output chan Chunk

	running bool
}

// DefaultShell resolves the shell to spawn: $SHELL, falling back to
// /bin/sh, matching the PTY session's shell-resolution rule.
func DefaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Start spawns shell (or DefaultShell() if empty) in a PTY sized to
// cols x rows, in the given working directory (empty uses the process's
// own cwd), and launches the reader goroutine.
func Start(shell string, args []string, dir string, cols, rows int, logger *slog.Logger) (*Session, error) {
	if shell == "" {
		shell = DefaultShell()
	}

	cmd := exec.Command(shell, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("ptysession: start %s: %w", shell, err)
	}

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		if logger != nil {
			logger.Warn("ptysession: initial setsize failed", "error", err)
		}
	}

	s := &Session{
		logger:  logger,
		cmd:     cmd,
		pty:     ptmx,
		Output:  make(chan Chunk, 16),
		running: true,
	}
	go s.readLoop()
	return s, nil
}

// readLoop reads up to readBufferSize bytes at a time, forwarding each
// chunk to Output, and exits cleanly on EOF or a read error.
func (s *Session) readLoop() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.Output <- Chunk{Data: data}
		}
		if err != nil {
			s.Output <- Chunk{Err: err}
			close(s.Output)
			return
		}
	}
}

// Write sends bytes to the PTY synchronously. Failures are returned, not
// fatal: the caller logs and the pane continues rendering its last state.
func (s *Session) Write(data []byte) error {
	if !s.running {
		return fmt.Errorf("ptysession: write to stopped session")
	}
	_, err := s.pty.Write(data)
	if err != nil {
		return fmt.Errorf("ptysession: write: %w", err)
	}
	return nil
}

// Resize updates the PTY's window size.
func (s *Session) Resize(cols, rows int) error {
	if err := pty.Setsize(s.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("ptysession: resize: %w", err)
	}
	return nil
}

// Close terminates the child process and closes the PTY file descriptor.
func (s *Session) Close() error {
	s.running = false
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	if s.pty != nil {
		return s.pty.Close()
	}
	return nil
}

// ForegroundProcessName returns the name of the child's foreground
// process group leader, where platform support exists (used to
// distinguish an idle shell from an active child like vim for tab
// titles). Returns ok=false where unsupported.
func (s *Session) ForegroundProcessName() (name string, ok bool) {
	return foregroundProcessName(s.pty)
}
