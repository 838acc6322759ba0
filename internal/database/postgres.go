package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresDatabase implements the Database interface for PostgreSQL using pgx
type PostgresDatabase struct {
	connString string
	db         *sql.DB
}

func NewPostgresDatabase(connString string) *PostgresDatabase {
	return &PostgresDatabase{
		connString: connString,
	}
}

func (p *PostgresDatabase) Open() error {
	db, err := sql.Open("pgx", p.connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	p.db = db
	return nil
}

func (p *PostgresDatabase) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDatabase) Ping() error {
	if p.db == nil {
		return fmt.Errorf("database not connected")
	}
	return p.db.Ping()
}

func (p *PostgresDatabase) GetDB() *sql.DB {
	return p.db
}

func (p *PostgresDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.Query(convertPlaceholders(query), args...)
}

func (p *PostgresDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return p.db.QueryRow(convertPlaceholders(query), args...)
}

func (p *PostgresDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return p.db.Exec(convertPlaceholders(query), args...)
}

func (p *PostgresDatabase) Begin() (*sql.Tx, error) {
	return p.db.Begin()
}

// CreateTables creates the wallet table if it does not exist yet.
func (p *PostgresDatabase) CreateTables() error {
	createWalletsSQL := `CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT NOT NULL PRIMARY KEY,
		balance INTEGER DEFAULT 1000
	);`
	if _, err := p.db.Exec(createWalletsSQL); err != nil {
		return err
	}
	return nil
}

// convertPlaceholders rewrites ? placeholders to $N for the pgx driver so the
// store can share one query text across both backends.
func convertPlaceholders(query string) string {
	var b strings.Builder
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			fmt.Fprintf(&b, "$%d", n)
			n++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
