//go:build cgo && !windows

package journal

import (
	_ "github.com/mattn/go-sqlite3"
)

func cgoSQLiteAvailable() bool {
	return true
}
