package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the journal database. The default path is ":memory:" so a
// simulation leaves nothing behind between runs.
//
// A plain :memory: DSN opens a fresh empty database per pool connection,
// so writes landing on a second connection would miss the migrated
// schema. The in-memory case uses a named shared-cache database instead;
// the name is unique per Init so two opens never alias each other.
func Init(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL"
	if path == ":memory:" {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
