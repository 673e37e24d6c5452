//go:build !cgo || windows

package journal

func cgoSQLiteAvailable() bool {
	return false
}
