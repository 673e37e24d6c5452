package journal

import (
	"runtime"
	"strings"

	// Postgres driver for shared journals
	_ "github.com/lib/pq"
	// Pure Go sqlite driver, available on all platforms
	_ "modernc.org/sqlite"
)

// SQLiteDriver selects the SQLite implementation backing a file journal.
type SQLiteDriver int

const (
	SQLiteDriverModernC SQLiteDriver = iota // modernc.org/sqlite
	SQLiteDriverMattn                       // mattn/go-sqlite3, needs cgo
)

// DriverName returns the database/sql driver name.
func (d SQLiteDriver) DriverName() string {
	if d == SQLiteDriverMattn {
		return "sqlite3"
	}
	return "sqlite"
}

func (d SQLiteDriver) String() string {
	if d == SQLiteDriverMattn {
		return "mattn/go-sqlite3 (CGO)"
	}
	return "modernc.org/sqlite (Pure Go)"
}

// CGOSQLiteAvailable reports whether the cgo sqlite driver is compiled in.
func CGOSQLiteAvailable() bool {
	if runtime.GOOS == "windows" {
		return false
	}
	return cgoSQLiteAvailable()
}

// DetermineSQLiteDriver picks the driver for a file journal. The pure
// Go driver is the default; the cgo driver is used only when asked for
// and compiled in.
func DetermineSQLiteDriver(preferCGO bool) SQLiteDriver {
	if preferCGO && CGOSQLiteAvailable() {
		return SQLiteDriverMattn
	}
	return SQLiteDriverModernC
}

// isPostgres reports whether dsn names a Postgres database rather than
// a SQLite file.
func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
