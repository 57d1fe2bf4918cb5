package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

const insertStatementQuery = `
	INSERT INTO xapi_statements (id, statement)
	VALUES ($1, $2)`

// Outbox persists statements into the xapi_statements table so a separate
// process can forward them to an LRS. Each batch is written in a single
// transaction; a failed batch leaves no partial rows behind.
type Outbox struct {
	db *sql.DB
}

// NewOutbox creates an Outbox sink on top of an open database handle.
func NewOutbox(db *sql.DB) *Outbox {
	if db == nil {
		panic("sink: database handle cannot be nil")
	}
	return &Outbox{db: db}
}

// Emit stores the batch. Statement ids double as row keys; statements that
// arrive without one are assigned a fresh UUID before insertion.
func (s *Outbox) Emit(ctx context.Context, statements []xapi.Statement) error {
	if len(statements) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sink: begin outbox transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStatementQuery)
	if err != nil {
		return fmt.Errorf("sink: prepare outbox insert: %w", err)
	}
	defer stmt.Close()

	for i := range statements {
		if statements[i].ID == "" {
			statements[i].ID = uuid.New().String()
		}
		raw, err := json.Marshal(statements[i])
		if err != nil {
			return fmt.Errorf("sink: marshal statement %s: %w", statements[i].ID, err)
		}
		if _, err := stmt.ExecContext(ctx, statements[i].ID, raw); err != nil {
			return fmt.Errorf("sink: insert statement %s: %w", statements[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sink: commit outbox transaction: %w", err)
	}
	return nil
}
