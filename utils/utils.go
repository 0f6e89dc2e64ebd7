package utils

import (
	"fmt"
	"os"
	"time"
)

const timeFormat = "2006/01/02 15:04:05"

// Uint8Len returns bytes length in uint8 type
func Uint8Len(data []byte) uint8 {
	return uint8(len(data))
}

// EnsureDir creates the directory if it does not exist yet
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

// UnixToString returns a textual representation of a unix timestamp;
// zero renders as "never"
func UnixToString(sec int64) string {
	if sec == 0 {
		return "never"
	}
	return time.Unix(sec, 0).Format(timeFormat)
}
