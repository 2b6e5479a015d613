package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const DefaultTable = "lexicon_words"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLAdapter stores lexicon words in any database/sql backend.
type SQLAdapter struct {
	db    *sql.DB
	table string
}

// NewSQLAdapter creates an adapter over *sql.DB.
func NewSQLAdapter(db *sql.DB, table string) (*SQLAdapter, error) {
	if db == nil {
		return nil, errors.New("storage: db is nil")
	}
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("storage: invalid table name %q", table)
	}
	return &SQLAdapter{db: db, table: table}, nil
}

// EnsureSchema creates table if missing.
func (s *SQLAdapter) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (word TEXT PRIMARY KEY)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *SQLAdapter) AddWord(ctx context.Context, word string) error {
	q := fmt.Sprintf(`INSERT INTO %s (word) VALUES (?)`, s.table)
	_, err := s.db.ExecContext(ctx, q, word)
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		return nil
	}
	return err
}

func (s *SQLAdapter) RemoveWord(ctx context.Context, word string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE word = ?`, s.table)
	_, err := s.db.ExecContext(ctx, q, word)
	return err
}

func (s *SQLAdapter) Words(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`SELECT word FROM %s`, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 256)
	for rows.Next() {
		var word string
		if scanErr := rows.Scan(&word); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, word)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLAdapter) HasWord(ctx context.Context, word string) (bool, error) {
	q := fmt.Sprintf(`SELECT 1 FROM %s WHERE word = ? LIMIT 1`, s.table)
	var v int
	err := s.db.QueryRowContext(ctx, q, word).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
