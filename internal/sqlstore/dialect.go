package sqlstore

import (
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// dbFileName is the sqlite database file inside DataDir.
const dbFileName = "registrar.db"

// dialect captures what differs between backends: the database/sql driver,
// the DDL, and the placeholder style.
type dialect struct {
	name     string
	driver   string
	schema   []string
	numbered bool // $1, $2 placeholders instead of ?
}

var (
	sqliteDialect = dialect{
		name:   types.BackendSQLite,
		driver: "sqlite",
		schema: sqliteSchema,
	}
	postgresDialect = dialect{
		name:     types.BackendPostgres,
		driver:   "pgx",
		schema:   postgresSchema,
		numbered: true,
	}
)

// dialectFor returns the dialect and data source name for config.
func dialectFor(config types.Config) (dialect, string, error) {
	switch config.Backend {
	case types.BackendSQLite:
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		return sqliteDialect, filepath.Join(dataDir, dbFileName), nil
	case types.BackendPostgres:
		if config.DSN == "" {
			return dialect{}, "", types.ErrDSNEmpty
		}
		return postgresDialect, config.DSN, nil
	default:
		return dialect{}, "", types.ErrBackendUnknown
	}
}

// rebind rewrites ? placeholders for dialects that number them.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
