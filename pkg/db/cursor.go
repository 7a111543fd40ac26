package db

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// DefaultBatchSize bounds how many rows a cursor pulls per fetch.
const DefaultBatchSize = 500

// CursorOptions tune a streaming read.
type CursorOptions struct {
	BatchSize int
	// Timeout, when set, becomes the statement timeout for the rest of
	// the surrounding transaction (SET LOCAL).
	Timeout time.Duration
}

// Cursor streams the rows of a query without buffering the full result
// set: rows are pulled from the driver in batches of at most BatchSize.
// A cursor is single-pass and finite, and must be consumed inside the
// transaction that opened it.
type Cursor[T any] struct {
	tx    *gorm.DB
	rows  *sql.Rows
	batch []T
	idx   int
	size  int
	done  bool
	err   error
}

// OpenCursor issues the query on tx and returns a cursor over its rows.
// The caller owns Close.
func OpenCursor[T any](tx *gorm.DB, query *gorm.DB, opts CursorOptions) (*Cursor[T], error) {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	if opts.Timeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", opts.Timeout.Milliseconds())
		if err := tx.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("setting statement timeout: %w", err)
		}
	}

	rows, err := query.Rows()
	if err != nil {
		return nil, err
	}

	return &Cursor[T]{
		tx:   tx,
		rows: rows,
		size: size,
	}, nil
}

// Next yields the next record. The second return is false once the
// cursor is exhausted.
func (c *Cursor[T]) Next() (T, bool, error) {
	var zero T
	if c.err != nil {
		return zero, false, c.err
	}
	if c.idx >= len(c.batch) {
		if c.done {
			return zero, false, nil
		}
		if err := c.fetch(); err != nil {
			c.err = err
			return zero, false, err
		}
		if len(c.batch) == 0 {
			return zero, false, nil
		}
	}
	record := c.batch[c.idx]
	c.idx++
	return record, true, nil
}

func (c *Cursor[T]) fetch() error {
	c.batch = c.batch[:0]
	c.idx = 0
	for len(c.batch) < c.size {
		if !c.rows.Next() {
			c.done = true
			return c.rows.Err()
		}
		var record T
		if err := c.tx.ScanRows(c.rows, &record); err != nil {
			return err
		}
		c.batch = append(c.batch, record)
	}
	return nil
}

// ForEach drains the cursor, invoking fn per record, and closes it.
func (c *Cursor[T]) ForEach(fn func(record T) error) error {
	defer c.Close()
	for {
		record, ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

// Close releases the underlying rows. Safe to call more than once.
func (c *Cursor[T]) Close() error {
	if c.rows == nil {
		return nil
	}
	err := multierr.Append(c.rows.Err(), c.rows.Close())
	c.rows = nil
	c.done = true
	return err
}
