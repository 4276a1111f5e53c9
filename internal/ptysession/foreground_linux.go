//go:build linux

package ptysession

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// foregroundProcessName reads the PTY's foreground process group id via
// TIOCGPGRP and resolves its command name from /proc, where supported.
func foregroundProcessName(f *os.File) (string, bool) {
	if f == nil {
		return "", false
	}
	pgid, err := unix.IoctlGetInt(int(f.Fd()), unix.TIOCGPGRP)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pgid) + "/comm")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
