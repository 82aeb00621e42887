package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/go-sql-driver/mysql"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed schema.sql
var schemaSQL string

var logger = logging.NewPackageLogger("db")

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const mysqlDuplicateEntry = 1062

// Connection pool limits
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// DB wraps the database connection with metrics
type DB struct {
	*sql.DB
	metrics *metrics.AppMetrics
}

// NewDB creates a new database connection with OpenTelemetry instrumentation
func NewDB(dsn string, m *metrics.AppMetrics, serviceName string) (*DB, error) {
	system := attribute.String("db.system", "mysql")
	driverName, err := otelsql.Register("mysql", otelsql.WithAttributes(system))
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := otelsql.WithAttributes(system, attribute.String("service.name", serviceName))
	if err := otelsql.RegisterDBStatsMetrics(conn, stats); err != nil {
		logger.Warn().Err(err).Msg("failed to register otelsql stats metrics")
	}

	return &DB{DB: conn, metrics: m}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// InitSchema creates the tables if they do not exist
func (db *DB) InitSchema(ctx context.Context) error {
	statements := splitSQLStatements(schemaSQL)

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w\nStatement: %s", i+1, err, stmt)
		}
	}

	logger.Info().Int("statements", len(statements)).Msg("database schema initialized")
	return nil
}

// splitSQLStatements splits a SQL script on ";" line endings, dropping -- comment lines
func splitSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	for i, stmt := range statements {
		statements[i] = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	}
	return statements
}

// isDuplicate reports whether err is a MySQL duplicate key violation
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
