package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrNoRows       = errors.New("no rows in result set")
	ErrNotConnected = errors.New("database not connected")
)

type Options struct {
	Driver string
	// DSN is the postgres connection string or the sqlite file path.
	DSN    string
	Models []interface{}
	Logger zerolog.Logger
}

// Row is a single result row with its columns kept in select order.
type Row struct {
	columns []string
	values  map[string]interface{}
}

func (r Row) Columns() []string {
	return r.columns
}

func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

func (r Row) Len() int {
	return len(r.columns)
}

// Gateway owns the database handle. Every Execute call is its own unit of work.
type Gateway struct {
	opts   Options
	mu     sync.RWMutex
	db     *gorm.DB
	logger zerolog.Logger
}

func New(opts Options) *Gateway {
	return &Gateway{opts: opts, logger: opts.Logger}
}

// Open wraps an existing handle, used when the caller already built the dialector.
func Open(db *gorm.DB, log zerolog.Logger) *Gateway {
	return &Gateway{db: db, logger: log}
}

func (g *Gateway) Connect(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		return nil
	}

	var dialector gorm.Dialector
	switch g.opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(g.opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(g.opts.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", g.opts.Driver)
	}

	logMode := logger.Silent
	if g.logger.GetLevel() <= zerolog.DebugLevel {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		g.logger.Error().Err(err).Str("driver", g.opts.Driver).Msg("failed to open database")
		return fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}

	if g.opts.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(3 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		g.logger.Error().Err(err).Msg("database ping failed")
		return fmt.Errorf("ping database: %w", err)
	}

	if len(g.opts.Models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(g.opts.Models...); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	g.db = db
	g.logger.Info().Str("driver", g.opts.Driver).Msg("database connection established")

	return nil
}

// DB returns the live handle; nil before Connect.
func (g *Gateway) DB() *gorm.DB {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db
}

func (g *Gateway) handle(ctx context.Context) (*gorm.DB, error) {
	db := g.DB()
	if db == nil {
		return nil, ErrNotConnected
	}
	return db.WithContext(ctx), nil
}

func (g *Gateway) Execute(ctx context.Context, statement string, args ...interface{}) error {
	_, err := g.ExecuteAffected(ctx, statement, args...)
	return err
}

// ExecuteAffected is Execute that also reports the number of affected rows.
func (g *Gateway) ExecuteAffected(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	db, err := g.handle(ctx)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(statement, args...)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		g.logger.Error().Err(err).Str("statement", truncate(statement, 50)).Msg("statement failed, rolled back")
		return 0, err
	}

	g.logger.Debug().Str("statement", truncate(statement, 50)).Int64("affected", affected).Msg("statement executed")
	return affected, nil
}

func (g *Gateway) FetchAll(ctx context.Context, statement string, args ...interface{}) ([]Row, error) {
	db, err := g.handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.Raw(statement, args...).Rows()
	if err != nil {
		g.logger.Error().Err(err).Str("statement", truncate(statement, 50)).Msg("query failed")
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (g *Gateway) FetchOne(ctx context.Context, statement string, args ...interface{}) (Row, error) {
	rows, err := g.FetchAll(ctx, statement, args...)
	if err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, ErrNoRows
	}
	return rows[0], nil
}

// Ping runs a trivial query through the connection pool.
func (g *Gateway) Ping(ctx context.Context) error {
	row, err := g.FetchOne(ctx, `SELECT 1 AS ok`)
	if err != nil {
		return err
	}
	if _, ok := row.Get("ok"); !ok {
		return fmt.Errorf("ping: unexpected columns %v", row.Columns())
	}
	return nil
}

// Transaction runs fn in a single transaction.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(fn)
}

func (g *Gateway) Disconnect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}

	sqlDB, err := g.db.DB()
	g.db = nil
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		g.logger.Error().Err(err).Msg("failed to close database")
		return err
	}

	g.logger.Info().Msg("database connection closed")
	return nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := Row{columns: columns, values: make(map[string]interface{}, len(columns))}
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row.values[col] = string(b)
				continue
			}
			row.values[col] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
