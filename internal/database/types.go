package database

import "database/sql"

// Database is the driver-level abstraction the wallet store runs on.
type Database interface {
	// Connection
	Open() error
	Close() error
	Ping() error
	GetDB() *sql.DB

	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
	Begin() (*sql.Tx, error)

	// CreateTables performs the existence-check-and-create migration.
	CreateTables() error
}

// UserBalance is one leaderboard row.
type UserBalance struct {
	ID      string
	Balance int
}
