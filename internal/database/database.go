package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"awesomeblog/internal/config"
	"awesomeblog/internal/orm"
)

type MethodsDB interface {
	CloseDB() error
	RunMigrations(ctx context.Context, schemas ...*orm.Schema) error
	HealthCheck(ctx context.Context) error
	CountTables(ctx context.Context) (int, error)
	GetDB() *DB
}

// DB is the shared connection pool. It runs statements written with ?
// placeholders and backtick identifiers and translates them for the
// configured dialect.
type DB struct {
	*sqlx.DB
	dialect Dialect
	logger  *zap.Logger
}

func New(db *sqlx.DB, dialect Dialect, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: db, dialect: dialect, logger: logger}
}

func ConnectDB(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	dialect, err := DialectFor(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	logger.Info("connecting to database",
		zap.String("driver", dialect.Name),
		zap.String("host", cfg.DB.Host),
		zap.String("name", cfg.DB.Name),
	)

	conn, err := sqlx.Connect(dialect.Driver, DSN(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dialect.Name, err)
	}

	conn.SetMaxOpenConns(cfg.DB.MaxConns)
	conn.SetMaxIdleConns(cfg.DB.MinConns)
	conn.SetConnMaxLifetime(30 * time.Minute)

	db := New(conn, dialect, logger)
	if err := db.HealthCheck(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}

	logger.Info("database connected", zap.String("driver", dialect.Name))
	return db, nil
}

// DSN renders the connection string for the configured driver.
func DSN(cfg config.DB) string {
	switch cfg.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	case "sqlite3":
		return cfg.Name
	default:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		// matched rather than changed rows, so no-op updates still count as 1
		mc.ClientFoundRows = true
		mc.Params = map[string]string{
			"charset":    cfg.Charset,
			"autocommit": strconv.FormatBool(cfg.Autocommit),
		}
		return mc.FormatDSN()
	}
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Select runs a query and returns each row as a column-keyed map. A positive
// size caps the number of rows read.
func (db *DB) Select(ctx context.Context, query string, args []any, size int) ([]map[string]any, error) {
	query = db.dialect.Translate(query)
	db.logger.Debug("sql", zap.String("query", query), zap.Any("args", args))

	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
		if size > 0 && len(out) >= size {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.logger.Debug("rows returned", zap.Int("count", len(out)))
	return out, nil
}

// Execute runs a statement and returns the number of affected rows.
func (db *DB) Execute(ctx context.Context, query string, args []any) (int64, error) {
	query = db.dialect.Translate(query)
	db.logger.Debug("sql", zap.String("query", query), zap.Any("args", args))

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations creates the tables for schemas. Index creation failures are
// logged and skipped, since most dialects lack "create index if not exists".
func (db *DB) RunMigrations(ctx context.Context, schemas ...*orm.Schema) error {
	for _, s := range schemas {
		stmts := s.DDL(db.dialect.TableOptions)
		if _, err := db.ExecContext(ctx, db.dialect.TranslateDDL(stmts[0])); err != nil {
			return fmt.Errorf("create table %s: %w", s.Table, err)
		}
		for _, stmt := range stmts[1:] {
			if _, err := db.ExecContext(ctx, db.dialect.Translate(stmt)); err != nil {
				db.logger.Warn("create index skipped", zap.String("table", s.Table), zap.Error(err))
			}
		}
		db.logger.Info("migrated table", zap.String("table", s.Table))
	}
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return db.PingContext(ctx)
}

// CountTables reports how many tables exist in the current database.
func (db *DB) CountTables(ctx context.Context) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, db.dialect.CountTablesSQL); err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	return count, nil
}

func (db *DB) GetDB() *DB {
	return db
}
