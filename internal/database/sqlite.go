package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDatabase implements the Database interface for SQLite
type SQLiteDatabase struct {
	connString string
	db         *sql.DB
}

func NewSQLiteDatabase(connString string) *SQLiteDatabase {
	return &SQLiteDatabase{
		connString: connString,
	}
}

func (s *SQLiteDatabase) Open() error {
	db, err := sql.Open("sqlite3", s.connString)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database not connected")
	}
	return s.db.Ping()
}

func (s *SQLiteDatabase) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}

func (s *SQLiteDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(query, args...)
}

func (s *SQLiteDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(query, args...)
}

func (s *SQLiteDatabase) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// CreateTables creates the wallet table if it does not exist yet.
func (s *SQLiteDatabase) CreateTables() error {
	createWalletsSQL := `CREATE TABLE IF NOT EXISTS wallets (
		"user_id" TEXT NOT NULL PRIMARY KEY,
		"balance" INTEGER DEFAULT 1000
	);`
	if _, err := s.db.Exec(createWalletsSQL); err != nil {
		return err
	}
	return nil
}
