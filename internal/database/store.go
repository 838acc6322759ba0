package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultBalance is what a never-seen user starts with.
const DefaultBalance = 1000

// Store is the wallet ledger. Every operation verifies the account exists,
// creating it with the default balance if not, and every balance mutation is
// a single atomic statement so concurrent credits and debits serialize inside
// the database.
type Store struct {
	db  Database
	log zerolog.Logger
}

// New opens the configured backend, runs the existence-check migration and
// returns the ready store.
func New(dbType, connString string, log zerolog.Logger) (*Store, error) {
	var db Database
	switch dbType {
	case "postgres":
		db = NewPostgresDatabase(connString)
	default:
		db = NewSQLiteDatabase(connString)
	}

	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbType, err)
	}
	if err := db.CreateTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Str("type", dbType).Msg("wallet store initialized")
	return &Store{db: db, log: log}, nil
}

// NewWithDatabase wraps an already-open Database.
func NewWithDatabase(db Database, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

// Balance ensures the account exists and returns its balance.
func (s *Store) Balance(userID string) (int, error) {
	var balance int
	err := s.db.QueryRow("SELECT balance FROM wallets WHERE user_id = ?", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec("INSERT INTO wallets (user_id, balance) VALUES (?, ?) ON CONFLICT(user_id) DO NOTHING",
			userID, DefaultBalance); err != nil {
			return 0, fmt.Errorf("create wallet for %s: %w", userID, err)
		}
		// Re-read rather than assume: a concurrent mutation may already
		// have moved the freshly created row.
		if err := s.db.QueryRow("SELECT balance FROM wallets WHERE user_id = ?", userID).Scan(&balance); err != nil {
			return 0, fmt.Errorf("read wallet for %s: %w", userID, err)
		}
		return balance, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read wallet for %s: %w", userID, err)
	}
	return balance, nil
}

// Credit adds amount to the user's balance, creating the account first if needed.
func (s *Store) Credit(userID string, amount int) error {
	return s.adjust(userID, amount)
}

// Debit removes amount from the user's balance. There is no sufficiency
// check; the balance is allowed to go negative.
func (s *Store) Debit(userID string, amount int) error {
	return s.adjust(userID, -amount)
}

func (s *Store) adjust(userID string, delta int) error {
	query := `INSERT INTO wallets (user_id, balance) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = wallets.balance + ?`
	if _, err := s.db.Exec(query, userID, DefaultBalance+delta, delta); err != nil {
		return fmt.Errorf("adjust wallet for %s by %d: %w", userID, delta, err)
	}
	return nil
}

// Leaderboard returns up to limit wallets ordered by balance.
func (s *Store) Leaderboard(limit int) ([]UserBalance, error) {
	rows, err := s.db.Query("SELECT user_id, balance FROM wallets ORDER BY balance DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []UserBalance
	for rows.Next() {
		var u UserBalance
		if err := rows.Scan(&u.ID, &u.Balance); err != nil {
			s.log.Warn().Err(err).Msg("skipping unreadable leaderboard row")
			continue
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
