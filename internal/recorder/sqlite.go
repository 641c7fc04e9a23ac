package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"AHRSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			run_id            TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			as_of             TEXT NOT NULL,
			current_price     REAL,
			current_ahr999    REAL,
			zone_label        TEXT,
			strategy_start    TEXT,
			range_high        REAL,
			range_low         REAL,
			range_position    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON report_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS threshold_summaries (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL REFERENCES report_runs(run_id),
			threshold      REAL NOT NULL,
			purchase_count INTEGER,
			total_invested TEXT,
			total_btc      TEXT,
			current_value  TEXT,
			profit         TEXT,
			return_ratio   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_run ON threshold_summaries(run_id)`,

		`CREATE TABLE IF NOT EXISTS indicator_history (
			date        TEXT PRIMARY KEY,
			price       REAL,
			ma_200d     REAL,
			ma_200w_fit REAL,
			ahr999      REAL
		)`,

		`CREATE TABLE IF NOT EXISTS price_updates (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			date      TEXT NOT NULL,
			price     REAL,
			source    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_updates_ts ON price_updates(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps an absent value to SQL NULL.
func nullable(o model.Optional) sql.NullFloat64 {
	v, ok := o.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func (r *SQLiteRecorder) RecordReport(rep *model.Report) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.New()
	tx, err := r.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO report_runs
		(run_id, timestamp, as_of, current_price, current_ahr999, zone_label,
		 strategy_start, range_high, range_low, range_position)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		runID.String(), time.Now().Unix(), rep.AsOf.Format(model.DateLayout),
		rep.CurrentPrice.InexactFloat64(), nullable(rep.CurrentIndicator), rep.CurrentZone.Label,
		rep.StrategyStart.Format(model.DateLayout), rep.Range.High, rep.Range.Low, rep.Range.Position,
	); err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, s := range rep.Summaries {
		if _, err := tx.Exec(`INSERT INTO threshold_summaries
			(run_id, threshold, purchase_count, total_invested, total_btc, current_value, profit, return_ratio)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID.String(), s.Threshold, s.PurchaseCount,
			s.CumulativeSpent.String(), s.CumulativeQuantity.String(),
			s.MarketValue.String(), s.Profit.String(), s.ReturnRatio.String(),
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert summary %v: %w", s.Threshold, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

func (r *SQLiteRecorder) RecordHistory(points []model.IndicatorPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO indicator_history (date, price, ma_200d, ma_200w_fit, ahr999)
		VALUES (?,?,?,?,?)
		ON CONFLICT(date) DO UPDATE SET
			price = excluded.price,
			ma_200d = excluded.ma_200d,
			ma_200w_fit = excluded.ma_200w_fit,
			ahr999 = excluded.ahr999`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(p.Date.Format(model.DateLayout), p.Price.InexactFloat64(),
			nullable(p.TrailingAverage), nullable(p.FairValue), nullable(p.Value)); err != nil {
			return fmt.Errorf("upsert %s: %w", p.Date.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordPriceUpdate(evt *PriceUpdateEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO price_updates (timestamp, date, price, source) VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Date, evt.Price, evt.Source,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
