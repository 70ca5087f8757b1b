package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestUp00002BackfillsProfitInBB(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE TABLE hands (
		source_path TEXT NOT NULL, hand_id INTEGER NOT NULL, profit TEXT NOT NULL, big_blind TEXT NOT NULL,
		PRIMARY KEY(source_path, hand_id));`); err != nil {
		_ = tx.Rollback()
		t.Fatalf("create test schema: %v", err)
	}

	fixtures := []struct {
		handID   int64
		profit   string
		bigBlind string
		want     float64
	}{
		{handID: 1, profit: "0.05", bigBlind: "0.02", want: 2.5},
		{handID: 2, profit: "-0.01", bigBlind: "0.02", want: -0.5},
		{handID: 3, profit: "1.00", bigBlind: "0", want: 0},
	}
	for _, f := range fixtures {
		if _, err := tx.ExecContext(ctx, `INSERT INTO hands(source_path, hand_id, profit, big_blind) VALUES('a.txt', ?, ?, ?)`, f.handID, f.profit, f.bigBlind); err != nil {
			_ = tx.Rollback()
			t.Fatalf("insert hand %d: %v", f.handID, err)
		}
	}

	if err := Up00002(ctx, tx); err != nil {
		_ = tx.Rollback()
		t.Fatalf("run migration: %v", err)
	}

	for _, f := range fixtures {
		var got float64
		if err := tx.QueryRowContext(ctx, `SELECT profit_bb FROM hands WHERE hand_id = ?`, f.handID).Scan(&got); err != nil {
			_ = tx.Rollback()
			t.Fatalf("query hand %d: %v", f.handID, err)
		}
		if got != f.want {
			_ = tx.Rollback()
			t.Fatalf("hand %d profit_bb = %v, want %v", f.handID, got, f.want)
		}
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit tx: %v", err)
	}
}
