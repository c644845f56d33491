package bench

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS bench_results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at     TIMESTAMP NOT NULL,
	table_name TEXT      NOT NULL,
	phase      TEXT      NOT NULL,
	ops        INTEGER   NOT NULL,
	ns_per_op  REAL      NOT NULL
);`

// SaveResults appends a run's phase results to the sqlite history file, so
// regressions show up across invocations rather than within one.
func SaveResults(dbPath string, run Run) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("bench: opening %s: %w", dbPath, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("bench: creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("bench: starting tx: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO bench_results (run_at, table_name, phase, ops, ns_per_op)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("bench: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range run.Results {
		if _, err := stmt.Exec(run.At, res.Table, res.Phase, res.Ops, res.NsPerOp); err != nil {
			tx.Rollback()
			return fmt.Errorf("bench: inserting result: %w", err)
		}
	}
	return tx.Commit()
}
