package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
)

func init() {
	goose.AddMigrationContext(Up00002, Down00002)
}

type profitRow struct {
	sourcePath string
	handID     int64
	profit     string
	bigBlind   string
}

// Up00002 adds profit_bb and fills it for existing rows. Money is stored as
// decimal text, so the division is done here rather than in SQL.
func Up00002(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `ALTER TABLE hands ADD COLUMN profit_bb REAL NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("add profit_bb column: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT source_path, hand_id, profit, big_blind FROM hands`)
	if err != nil {
		return fmt.Errorf("query hands for profit_bb backfill: %w", err)
	}
	var pending []profitRow
	for rows.Next() {
		var r profitRow
		if err := rows.Scan(&r.sourcePath, &r.handID, &r.profit, &r.bigBlind); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan hand for profit_bb backfill: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate hands for profit_bb backfill: %w", err)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, r := range pending {
		bb, err := ProfitInBB(r.profit, r.bigBlind)
		if err != nil {
			return fmt.Errorf("hand %s#%d: %w", r.sourcePath, r.handID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE hands SET profit_bb = ? WHERE source_path = ? AND hand_id = ?`, bb, r.sourcePath, r.handID); err != nil {
			return fmt.Errorf("update profit_bb: %w", err)
		}
	}
	return nil
}

func Down00002(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `ALTER TABLE hands DROP COLUMN profit_bb`); err != nil {
		return fmt.Errorf("drop profit_bb column: %w", err)
	}
	return nil
}

// ProfitInBB divides two decimal-text amounts. A zero big blind yields 0.
func ProfitInBB(profit, bigBlind string) (float64, error) {
	p, err := decimal.NewFromString(profit)
	if err != nil {
		return 0, fmt.Errorf("parse profit %q: %w", profit, err)
	}
	bb, err := decimal.NewFromString(bigBlind)
	if err != nil {
		return 0, fmt.Errorf("parse big blind %q: %w", bigBlind, err)
	}
	if bb.IsZero() {
		return 0, nil
	}
	return p.Div(bb).InexactFloat64(), nil
}
