package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Dialect adapts statements written for MySQL to a driver.
type Dialect struct {
	Name           string
	Driver         string
	TableOptions   string
	CountTablesSQL string
	// ColumnTypes replaces generic column types in DDL.
	ColumnTypes map[string]string
}

var (
	MySQL = Dialect{
		Name:           "mysql",
		Driver:         "mysql",
		TableOptions:   "engine=innodb default charset=utf8",
		CountTablesSQL: "select count(*) from information_schema.tables where table_schema = database()",
	}
	Postgres = Dialect{
		Name:           "postgres",
		Driver:         "postgres",
		CountTablesSQL: "select count(*) from information_schema.tables where table_schema = 'public'",
		ColumnTypes:    map[string]string{"real": "double precision"},
	}
	SQLite = Dialect{
		Name:           "sqlite3",
		Driver:         "sqlite3",
		CountTablesSQL: "select count(*) from sqlite_master where type = 'table'",
	}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "", "mysql":
		return MySQL, nil
	case "postgres":
		return Postgres, nil
	case "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
}

// Translate rewrites identifier quoting and ? placeholders for the driver.
func (d Dialect) Translate(query string) string {
	if d.Name == "postgres" {
		query = strings.ReplaceAll(query, "`", `"`)
	}
	return sqlx.Rebind(sqlx.BindType(d.Driver), query)
}

// TranslateDDL is Translate for create statements, with column types mapped.
func (d Dialect) TranslateDDL(stmt string) string {
	for from, to := range d.ColumnTypes {
		stmt = strings.ReplaceAll(stmt, "` "+from+",", "` "+to+",")
		stmt = strings.ReplaceAll(stmt, "` "+from+"\n", "` "+to+"\n")
	}
	return d.Translate(stmt)
}
