// Package postgres stores the note collection in a PostgreSQL table.
//
// Rows carry an explicit position so that Load returns notes in insertion
// order. Save replaces every row inside one transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"example.com/notes-registry/internal/notes"
)

var _ notes.Persister = (*Persister)(nil)

const schema = `
	CREATE TABLE IF NOT EXISTS named_notes (
		position integer NOT NULL,
		name     text    PRIMARY KEY,
		text     text    NOT NULL DEFAULT ''
	)
`

type Persister struct {
	db       *sql.DB
	stmtLoad *sql.Stmt
}

// New creates the table if needed and prepares the load statement.
func New(ctx context.Context, db *sql.DB) (*Persister, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("postgres: create schema: %w", err)
	}

	load, err := db.PrepareContext(ctx, `
		SELECT name, text
		FROM named_notes
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: prepare load: %w", err)
	}

	return &Persister{db: db, stmtLoad: load}, nil
}

func (p *Persister) Close() error {
	if p.stmtLoad != nil {
		return p.stmtLoad.Close()
	}
	return nil
}

func (p *Persister) Load(ctx context.Context) (notes.Collection, error) {
	rows, err := p.stmtLoad.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: load: %w", err)
	}
	defer rows.Close()

	out := make(notes.Collection, 0, 32)
	for rows.Next() {
		var n notes.Note
		if err := rows.Scan(&n.Name, &n.Text); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load: %w", err)
	}
	return out, nil
}

// Save uses explicit transaction: lock table, DELETE all rows, INSERT the collection.
func (p *Persister) Save(ctx context.Context, c notes.Collection) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	// Serializes concurrent savers; plain readers are not blocked.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE named_notes IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("postgres: lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM named_notes`); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO named_notes (position, name, text) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("postgres: prepare insert: %w", err)
	}
	defer ins.Close()

	for i, n := range c {
		if _, err := ins.ExecContext(ctx, i, n.Name, n.Text); err != nil {
			return fmt.Errorf("postgres: insert %q: %w", n.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
