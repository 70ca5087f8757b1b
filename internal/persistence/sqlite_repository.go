package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
	"github.com/AkatukiSora/ace-analytics/internal/persistence/migrations"
)

// storedTimeLayout is fixed width so that text order equals time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const handColumns = `source_path, hand_id, played_at, zone, position, stakes_text, small_blind, big_blind,
	hole_cards, community, won, vpip, saw_flop, raised_preflop,
	money_spent, money_won, profit, calls, bets, raises`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode reduces write latency by avoiding full fsync on every commit.
	// synchronous=NORMAL is safe with WAL and significantly faster than the default FULL.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	if err := runMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) UpsertHands(ctx context.Context, hands []parser.Hand) (UpsertResult, error) {
	var res UpsertResult
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = upsertHandsTx(ctx, tx, hands)
		return err
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}

func upsertHandsTx(ctx context.Context, tx *sql.Tx, hands []parser.Hand) (UpsertResult, error) {
	res := UpsertResult{}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, h := range hands {
		if !storable(h) {
			res.Skipped++
			continue
		}

		exists, err := rowExists(ctx, tx, `SELECT 1 FROM hands WHERE source_path = ? AND hand_id = ? LIMIT 1`, h.Source, h.ID)
		if err != nil {
			return UpsertResult{}, err
		}

		profitBB, err := migrations.ProfitInBB(h.Profit.String(), h.Stakes.Big.String())
		if err != nil {
			return UpsertResult{}, err
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO hands(`+handColumns+`, profit_bb, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path, hand_id) DO UPDATE SET
			played_at=excluded.played_at,
			zone=excluded.zone,
			position=excluded.position,
			stakes_text=excluded.stakes_text,
			small_blind=excluded.small_blind,
			big_blind=excluded.big_blind,
			hole_cards=excluded.hole_cards,
			community=excluded.community,
			won=excluded.won,
			vpip=excluded.vpip,
			saw_flop=excluded.saw_flop,
			raised_preflop=excluded.raised_preflop,
			money_spent=excluded.money_spent,
			money_won=excluded.money_won,
			profit=excluded.profit,
			calls=excluded.calls,
			bets=excluded.bets,
			raises=excluded.raises,
			profit_bb=excluded.profit_bb,
			updated_at=excluded.updated_at`,
			h.Source,
			h.ID,
			h.Date.UTC().Format(storedTimeLayout),
			h.Date.Location().String(),
			string(h.Position),
			h.Stakes.Text,
			h.Stakes.Small.String(),
			h.Stakes.Big.String(),
			h.HoleCards,
			h.Community,
			boolToInt(h.Won),
			boolToInt(h.VPIP),
			boolToInt(h.SawFlop),
			boolToInt(h.RaisedPreflop),
			h.MoneySpent.String(),
			h.MoneyWon.String(),
			h.Profit.String(),
			h.Calls,
			h.Bets,
			h.Raises,
			profitBB,
			now,
		); err != nil {
			return UpsertResult{}, fmt.Errorf("upsert hand %s: %w", keyOf(h), err)
		}

		if exists {
			res.Updated++
		} else {
			res.Inserted++
		}
	}

	return res, nil
}

func (r *SQLiteRepository) ListHands(ctx context.Context, f HandFilter) ([]parser.Hand, error) {
	where, args := buildHandsFilterWhere(f)
	query := `SELECT ` + handColumns + ` FROM hands` + where + ` ORDER BY played_at ASC, source_path ASC, hand_id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	defer rows.Close()

	var out []parser.Hand
	for rows.Next() {
		h, err := scanHand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountHands(ctx context.Context, f HandFilter) (int, error) {
	where, args := buildHandsFilterWhere(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hands`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hands: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHand(rs rowScanner) (parser.Hand, error) {
	var (
		h                                   parser.Hand
		playedAt, zone, position            string
		small, big, spent, won, profit      string
		isWon, vpip, sawFlop, raisedPreflop int
	)
	if err := rs.Scan(
		&h.Source, &h.ID, &playedAt, &zone, &position, &h.Stakes.Text, &small, &big,
		&h.HoleCards, &h.Community, &isWon, &vpip, &sawFlop, &raisedPreflop,
		&spent, &won, &profit, &h.Calls, &h.Bets, &h.Raises,
	); err != nil {
		return parser.Hand{}, fmt.Errorf("scan hand: %w", err)
	}

	t, err := time.Parse(storedTimeLayout, playedAt)
	if err != nil {
		return parser.Hand{}, fmt.Errorf("hand %s#%d played_at: %w", h.Source, h.ID, err)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	h.Date = t.In(loc)
	h.Position = parser.Position(position)
	h.Won = isWon != 0
	h.VPIP = vpip != 0
	h.SawFlop = sawFlop != 0
	h.RaisedPreflop = raisedPreflop != 0

	for _, m := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&h.Stakes.Small, small},
		{&h.Stakes.Big, big},
		{&h.MoneySpent, spent},
		{&h.MoneyWon, won},
		{&h.Profit, profit},
	} {
		if *m.dst, err = decimal.NewFromString(m.src); err != nil {
			return parser.Hand{}, fmt.Errorf("hand %s#%d amount %q: %w", h.Source, h.ID, m.src, err)
		}
	}
	return h, nil
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var probe int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&probe)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func buildHandsFilterWhere(f HandFilter) (string, []any) {
	where := " WHERE 1=1"
	args := make([]any, 0, 4)
	if f.FromTime != nil {
		where += ` AND played_at >= ?`
		args = append(args, f.FromTime.UTC().Format(storedTimeLayout))
	}
	if f.ToTime != nil {
		where += ` AND played_at <= ?`
		args = append(args, f.ToTime.UTC().Format(storedTimeLayout))
	}
	if f.SourcePath != "" {
		where += ` AND source_path = ?`
		args = append(args, f.SourcePath)
	}
	if f.OnlyWon {
		where += ` AND won = 1`
	}
	return where, args
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
