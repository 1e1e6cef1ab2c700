package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/MrJamesThe3rd/pdv/internal/database"
	"github.com/MrJamesThe3rd/pdv/internal/record"
)

type Store struct {
	db      *sql.DB
	dialect dialect
}

// New wraps db. driver is database.Postgres or database.MySQL.
func New(db *sql.DB, driver string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	return &Store{db: db, dialect: d}, nil
}

func (s *Store) Init(_ context.Context) error {
	if err := database.Migrate(s.db, s.dialect.name); err != nil {
		return fmt.Errorf("initializing record store: %w", err)
	}

	return nil
}

func (s *Store) GetAll(ctx context.Context, c record.Collection) ([]record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	query := s.dialect.rebind(`SELECT record_key, data FROM records WHERE collection = ? ORDER BY record_key`)

	rows, err := s.db.QueryContext(ctx, query, string(c))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c, err)
	}
	defer rows.Close()

	var out []record.Record

	for rows.Next() {
		var (
			r    record.Record
			data []byte
		)

		if err := rows.Scan(&r.Key, &data); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c, err)
		}

		r.Data = json.RawMessage(data)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", c, err)
	}

	return out, nil
}

func (s *Store) Get(ctx context.Context, c record.Collection, key string) (*record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	query := s.dialect.rebind(`SELECT data FROM records WHERE collection = ? AND record_key = ?`)

	var data []byte

	err := s.db.QueryRowContext(ctx, query, string(c), key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting %s/%s: %w", c, key, err)
	}

	return &record.Record{Key: key, Data: json.RawMessage(data)}, nil
}

func (s *Store) Add(ctx context.Context, c record.Collection, data json.RawMessage) (string, error) {
	if err := record.Check(c); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	id, err := s.nextID(ctx, tx, c)
	if err != nil {
		return "", fmt.Errorf("allocating key in %s: %w", c, err)
	}

	key := strconv.FormatInt(id, 10)

	query := s.dialect.rebind(`INSERT INTO records (collection, record_key, data) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, string(c), key, string(data)); err != nil {
		return "", fmt.Errorf("adding record to %s: %w", c, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit add: %w", err)
	}

	return key, nil
}

func (s *Store) Put(ctx context.Context, c record.Collection, key string, data json.RawMessage) error {
	if err := record.Check(c); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.upsert, string(c), key, string(data)); err != nil {
		return fmt.Errorf("putting %s/%s: %w", c, key, err)
	}

	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		if err := s.raiseSequence(ctx, tx, c, n); err != nil {
			return fmt.Errorf("advancing key sequence of %s: %w", c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, c record.Collection, key string) error {
	if err := record.Check(c); err != nil {
		return err
	}

	query := s.dialect.rebind(`DELETE FROM records WHERE collection = ? AND record_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, string(c), key); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c, key, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// lastID locks and returns the sequence row of c. found is false when the
// collection has no sequence yet.
func (s *Store) lastID(ctx context.Context, tx *sql.Tx, c record.Collection) (int64, bool, error) {
	query := s.dialect.rebind(`SELECT last_id FROM record_sequences WHERE collection = ? FOR UPDATE`)

	var last int64

	err := tx.QueryRowContext(ctx, query, string(c)).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return last, true, nil
}

func (s *Store) setLastID(ctx context.Context, tx *sql.Tx, c record.Collection, id int64, exists bool) error {
	query := s.dialect.rebind(`UPDATE record_sequences SET last_id = ? WHERE collection = ?`)
	args := []any{id, string(c)}

	if !exists {
		query = s.dialect.rebind(`INSERT INTO record_sequences (last_id, collection) VALUES (?, ?)`)
	}

	_, err := tx.ExecContext(ctx, query, args...)

	return err
}

func (s *Store) nextID(ctx context.Context, tx *sql.Tx, c record.Collection) (int64, error) {
	last, found, err := s.lastID(ctx, tx, c)
	if err != nil {
		return 0, err
	}

	next := last + 1
	if err := s.setLastID(ctx, tx, c, next, found); err != nil {
		return 0, err
	}

	return next, nil
}

func (s *Store) raiseSequence(ctx context.Context, tx *sql.Tx, c record.Collection, n int64) error {
	last, found, err := s.lastID(ctx, tx, c)
	if err != nil {
		return err
	}

	if found && n <= last {
		return nil
	}

	return s.setLastID(ctx, tx, c, n, found)
}
