//go:build !linux

package ptysession

import "os"

// foregroundProcessName has no portable implementation outside Linux's
// /proc; platforms without child enumeration support report ok=false.
func foregroundProcessName(f *os.File) (string, bool) {
	return "", false
}
