package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// DataSourceConfig holds connection details for a SQL artifact store.
type DataSourceConfig struct {
	Type     string `json:"type"` // "postgres", "mysql"
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"` // postgres only: "disable", "require"
	Table    string `json:"table"`
}

// DefaultTable is used when DataSourceConfig.Table is empty.
const DefaultTable = "model_artifacts"

// SQLStore reads artifacts from a table shaped like
//
//	name TEXT PRIMARY KEY, payload BYTEA/BLOB, compressed BOOLEAN
type SQLStore struct {
	db    *sql.DB
	query string
}

// DSN builds the driver name and connection string for config.
func DSN(config DataSourceConfig) (driver, dsn string, err error) {
	switch config.Type {
	case "postgres":
		sslMode := config.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.DBName, sslMode)
		return "postgres", dsn, nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.Net = "tcp"
		mc.Addr = config.Host + ":" + strconv.Itoa(config.Port)
		mc.User = config.User
		mc.Passwd = config.Password
		mc.DBName = config.DBName
		return "mysql", mc.FormatDSN(), nil
	default:
		return "", "", fmt.Errorf("unsupported artifact database type %q", config.Type)
	}
}

// lookupQuery returns the select statement for the configured dialect.
func lookupQuery(dbType, table string) string {
	if table == "" {
		table = DefaultTable
	}
	if dbType == "postgres" {
		return fmt.Sprintf("SELECT payload, compressed FROM %s WHERE name = $1", pq.QuoteIdentifier(table))
	}
	return fmt.Sprintf("SELECT payload, compressed FROM %s WHERE name = ?", quoteMySQLIdentifier(table))
}

func quoteMySQLIdentifier(name string) string {
	out := []byte{'`'}
	for i := 0; i < len(name); i++ {
		if name[i] == '`' {
			out = append(out, '`')
		}
		out = append(out, name[i])
	}
	return string(append(out, '`'))
}

// OpenSQLStore connects to the configured database and verifies it is
// reachable.
func OpenSQLStore(ctx context.Context, config DataSourceConfig) (*SQLStore, error) {
	driver, dsn, err := DSN(config)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db, config.Type, config.Table), nil
}

// NewSQLStore wraps an open handle.
func NewSQLStore(db *sql.DB, dbType, table string) *SQLStore {
	return &SQLStore{db: db, query: lookupQuery(dbType, table)}
}

func (s *SQLStore) Fetch(ctx context.Context, name string) (Blob, error) {
	var b Blob
	err := s.db.QueryRowContext(ctx, s.query, name).Scan(&b.Data, &b.Compressed)
	if errors.Is(err, sql.ErrNoRows) {
		return Blob{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Blob{}, err
	}
	return b, nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
