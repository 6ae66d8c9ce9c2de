package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"voting-registry/pkg/config"
)

// SQLStore persists records in a single address-keyed table. It supports the
// same drivers as the rest of the system: sqlite for single-node deployments,
// postgres for shared ones.
type SQLStore struct {
	db      *sql.DB
	insert  string
	selectQ string
	updateQ string
	deleteQ string
}

// NewSQLStore opens the configured database and ensures the records table
// exists.
func NewSQLStore(cfg *config.DatabaseConfig) (*SQLStore, error) {
	var driverName, dsn, ddl string
	var placeholders [3]string

	switch cfg.Type {
	case "postgres":
		driverName = "postgres"
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		ddl = `CREATE TABLE IF NOT EXISTS records (address BYTEA PRIMARY KEY, data BYTEA NOT NULL)`
		placeholders = [3]string{"$1", "$2", "$3"}
	case "sqlite":
		driverName = "sqlite3"
		dsn = cfg.Path
		ddl = `CREATE TABLE IF NOT EXISTS records (address BLOB PRIMARY KEY, data BLOB NOT NULL)`
		placeholders = [3]string{"?", "?", "?"}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	return &SQLStore{
		db:      db,
		insert:  fmt.Sprintf("INSERT INTO records (address, data) VALUES (%s, %s)", placeholders[0], placeholders[1]),
		selectQ: fmt.Sprintf("SELECT data FROM records WHERE address = %s", placeholders[0]),
		updateQ: fmt.Sprintf("UPDATE records SET data = %s WHERE address = %s", placeholders[0], placeholders[1]),
		deleteQ: fmt.Sprintf("DELETE FROM records WHERE address = %s", placeholders[0]),
	}, nil
}

// Create inserts a record; the primary key on address makes a concurrent
// duplicate insert fail, which is the dedup guarantee.
func (s *SQLStore) Create(addr common.Hash, data []byte) error {
	_, err := s.db.Exec(s.insert, addr.Bytes(), data)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Read returns the record at the address.
func (s *SQLStore) Read(addr common.Hash) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(s.selectQ, addr.Bytes()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Update applies mutate inside a transaction so concurrent writers to the
// same address serialize on the row.
func (s *SQLStore) Update(addr common.Hash, mutate func([]byte) ([]byte, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data []byte
	err = tx.QueryRow(s.selectQ, addr.Bytes()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	next, err := mutate(data)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(s.updateQ, next, addr.Bytes()); err != nil {
		return err
	}
	return tx.Commit()
}

// Destroy deletes the record at the address.
func (s *SQLStore) Destroy(addr common.Hash) error {
	res, err := s.db.Exec(s.deleteQ, addr.Bytes())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}
