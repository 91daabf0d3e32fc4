package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrConnection  = errors.New("store unavailable")
	ErrTransaction = errors.New("transaction error")
	ErrQuery       = errors.New("query error")
	ErrCommit      = errors.New("commit failed")
	ErrRollback    = errors.New("rollback failed")
)

// ConnPool hands out connections dedicated to a single unit of work.
type ConnPool interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Conn is one pooled connection with at most one open transaction.
// Release must be called exactly once per acquired Conn.
type Conn interface {
	// ReserveID advances the named counter outside any transaction, so a
	// reserved id stays taken even when the work using it rolls back.
	ReserveID(ctx context.Context, sequence string) (int64, error)
	Begin(ctx context.Context) error
	// InsertReturningID runs an INSERT ... RETURNING <id> inside the open transaction.
	InsertReturningID(ctx context.Context, query string, args ...any) (int64, error)
	Commit() error
	Rollback() error
	Release() error
}

type SQLPool struct{ db *sqlx.DB }

func NewSQLPool(db *sqlx.DB) *SQLPool { return &SQLPool{db: db} }

func (p *SQLPool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return &sqlConn{conn: c}, nil
}

type sqlConn struct {
	conn     *sqlx.Conn
	tx       *sqlx.Tx
	released bool
}

// reserveIDSQL is an upsert both sqlite and postgres accept.
const reserveIDSQL = `
  INSERT INTO id_sequences (name, value) VALUES (?, 1)
  ON CONFLICT (name) DO UPDATE SET value = id_sequences.value + 1
  RETURNING value`

func (c *sqlConn) ReserveID(ctx context.Context, sequence string) (int64, error) {
	if c.tx != nil {
		return 0, fmt.Errorf("%w: reservation inside a transaction", ErrQuery)
	}
	var id int64
	if err := c.conn.QueryRowxContext(ctx, c.conn.Rebind(reserveIDSQL), sequence).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: reserving %s id: %v", ErrQuery, sequence, err)
	}
	return id, nil
}

func (c *sqlConn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return fmt.Errorf("%w: transaction already open", ErrTransaction)
	}
	tx, err := c.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	c.tx = tx
	return nil
}

func (c *sqlConn) InsertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if c.tx == nil {
		return 0, fmt.Errorf("%w: no open transaction", ErrQuery)
	}
	var id int64
	if err := c.tx.QueryRowxContext(ctx, c.tx.Rebind(query), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return id, nil
}

func (c *sqlConn) Commit() error {
	if c.tx == nil {
		return fmt.Errorf("%w: no open transaction", ErrCommit)
	}
	err := c.tx.Commit()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}
	c.tx = nil
	return nil
}

// Rollback is a no-op once the transaction has already ended.
func (c *sqlConn) Rollback() error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: %v", ErrRollback, err)
	}
	return nil
}

func (c *sqlConn) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.conn.Close()
}
