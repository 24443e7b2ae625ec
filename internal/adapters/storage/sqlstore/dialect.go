package sqlstore

import (
	"fmt"
	"regexp"
)

// Supported drivers, matching storage.driver in the configuration.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Dialect holds the SQL that differs between database engines.
type Dialect struct {
	// Name is the configured driver name.
	Name string
	// DriverName is the database/sql driver registered by the imported package.
	DriverName string

	schema string
	upsert string
	query  string
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return Dialect{
			Name:       DriverSQLite,
			DriverName: "sqlite",
			schema:     `CREATE TABLE IF NOT EXISTS %s (entry_key TEXT PRIMARY KEY, entry_value TEXT NOT NULL)`,
			upsert: `INSERT INTO %s (entry_key, entry_value) VALUES (?, ?) ` +
				`ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value`,
			query: `SELECT entry_value FROM %s WHERE entry_key = ?`,
		}, nil
	case DriverPostgres:
		return Dialect{
			Name:       DriverPostgres,
			DriverName: "pgx",
			schema:     `CREATE TABLE IF NOT EXISTS %s (entry_key TEXT PRIMARY KEY, entry_value TEXT NOT NULL)`,
			upsert: `INSERT INTO %s (entry_key, entry_value) VALUES ($1, $2) ` +
				`ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value`,
			query: `SELECT entry_value FROM %s WHERE entry_key = $1`,
		}, nil
	case DriverMySQL:
		return Dialect{
			Name:       DriverMySQL,
			DriverName: "mysql",
			schema: `CREATE TABLE IF NOT EXISTS %s (entry_key VARCHAR(191) NOT NULL PRIMARY KEY, ` +
				`entry_value MEDIUMTEXT NOT NULL) CHARACTER SET utf8mb4`,
			upsert: `INSERT INTO %s (entry_key, entry_value) VALUES (?, ?) ` +
				`ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value)`,
			query: `SELECT entry_value FROM %s WHERE entry_key = ?`,
		}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// statements renders the dialect's SQL for table.
// The table name is validated because it cannot be passed as a parameter.
func (d Dialect) statements(table string) (statements, error) {
	if !tableNamePattern.MatchString(table) {
		return statements{}, fmt.Errorf("invalid table name %q", table)
	}

	return statements{
		schema: fmt.Sprintf(d.schema, table),
		upsert: fmt.Sprintf(d.upsert, table),
		query:  fmt.Sprintf(d.query, table),
	}, nil
}

type statements struct {
	schema string
	upsert string
	query  string
}
