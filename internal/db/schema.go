package db

import "database/sql"

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cash_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT,
		uid INTEGER,
		contract_id TEXT,
		amount REAL,
		day TEXT,
		ts INTEGER
	);`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT,
		action TEXT,
		metadata TEXT,
		ts INTEGER
	);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
