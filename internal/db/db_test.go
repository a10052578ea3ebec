package db

import "testing"

// TestInMemorySchemaSharedAcrossPoolConnections pins the connection that
// ran the migration inside a transaction and writes through the pool's
// second connection; the schema must be visible there too.
func TestInMemorySchemaSharedAcrossPoolConnections(t *testing.T) {
	conn, err := Init(":memory:")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	_, err = conn.Exec(`
	INSERT INTO cash_events(ref,uid,contract_id,amount,day,ts)
	VALUES ('r1',1,'c1',20,'2024-03-01',0)
	`)
	if err != nil {
		t.Fatalf("insert on second pool connection: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO audit_logs(ref,action,metadata,ts) VALUES ('r2','t','',0)`); err != nil {
		t.Fatalf("audit insert on second pool connection: %v", err)
	}
}

// TestInMemoryDatabasesIsolated: two in-memory opens must not share data.
func TestInMemoryDatabasesIsolated(t *testing.T) {
	a, err := Init(":memory:")
	if err != nil {
		t.Fatalf("init a: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	b, err := Init(":memory:")
	if err != nil {
		t.Fatalf("init b: %v", err)
	}
	t.Cleanup(func() { b.Close() })

	if _, err := a.Exec(`
	INSERT INTO cash_events(ref,uid,contract_id,amount,day,ts)
	VALUES ('r1',1,'c1',20,'2024-03-01',0)
	`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := b.QueryRow(`SELECT COUNT(*) FROM cash_events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("second database sees %d rows from the first", n)
	}
}
