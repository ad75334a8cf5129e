package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultDBPath returns the default bulletquest DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".bulletquest", "bulletquest.db"), nil
}

type dialect struct {
	driver string
	pk     string
	ts     string
}

var (
	sqliteDialect   = dialect{driver: DriverSQLite, pk: "INTEGER PRIMARY KEY AUTOINCREMENT", ts: "DATETIME"}
	postgresDialect = dialect{driver: DriverPostgres, pk: "BIGSERIAL PRIMARY KEY", ts: "TIMESTAMPTZ"}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return sqliteDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// rebind rewrites ? placeholders to $n for postgres. Queries in this package
// never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteDSN turns a bare path into a modernc DSN with the pragmas the store
// relies on: a busy timeout so the decay sweep waits instead of failing, and
// enforced foreign keys.
func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") && strings.Contains(dsn, "_pragma") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}

// Open connects to the configured database, verifies the connection and
// applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		if d.driver != DriverSQLite {
			return nil, fmt.Errorf("storage dsn is required for %s", d.driver)
		}
		if dsn, err = DefaultDBPath(); err != nil {
			return nil, err
		}
	}

	if d.driver == DriverSQLite {
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == DriverSQLite {
		// One writer at a time; transactions hold the only connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr("ping "+d.driver, err)
	}
	if err := Migrate(ctx, db, d.driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return newStore(db, d), nil
}
