package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/id"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists pricing events to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logrus.Entry) (*SQLiteRecorder, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets analytics readers query while the service appends.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_logs (
			id                   TEXT PRIMARY KEY,
			vehicle_id           TEXT    NOT NULL,
			timestamp            INTEGER NOT NULL,
			calculated_price     INTEGER NOT NULL,
			base_price           REAL    NOT NULL,
			category             TEXT    NOT NULL,
			year                 INTEGER NOT NULL,
			vehicle_demand       INTEGER NOT NULL,
			vehicle_inventory    INTEGER NOT NULL,
			demand_multiplier    REAL    NOT NULL,
			seasonal_adjustment  REAL    NOT NULL,
			competitor_pricing   REAL    NOT NULL,
			inventory_level      REAL    NOT NULL,
			pricing_strategy     TEXT    NOT NULL,
			logged_at            INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_logs_vehicle ON price_logs(vehicle_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_price_logs_ts ON price_logs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordPricingEvent validates and appends a snapshot. An empty ID is assigned a ULID.
func (r *SQLiteRecorder) RecordPricingEvent(evt *model.PricingEventSnapshot) error {
	if err := Validate(evt); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	eventID := evt.ID
	if eventID == "" {
		eventID = id.New(evt.Timestamp)
	}
	f := evt.RealTimeFactorsSnapshot

	_, err := r.db.Exec(`INSERT INTO price_logs
		(id, vehicle_id, timestamp, calculated_price, base_price, category, year,
		 vehicle_demand, vehicle_inventory,
		 demand_multiplier, seasonal_adjustment, competitor_pricing, inventory_level,
		 pricing_strategy, logged_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		eventID, evt.VehicleID, evt.Timestamp.UnixMilli(), evt.CalculatedPrice,
		evt.BasePriceSnapshot, string(evt.CategorySnapshot), evt.YearSnapshot,
		evt.VehicleDemandSnapshot, evt.VehicleInventorySnapshot,
		f.DemandMultiplier, f.SeasonalAdjustment, f.CompetitorPricing, f.InventoryLevel,
		evt.PricingStrategyUsed.String(), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert price log: %w", err)
	}
	return nil
}

// PricingEvents returns the newest events first.
func (r *SQLiteRecorder) PricingEvents(vehicleID string, limit int) ([]model.PricingEventSnapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, vehicle_id, timestamp, calculated_price, base_price, category, year,
		vehicle_demand, vehicle_inventory,
		demand_multiplier, seasonal_adjustment, competitor_pricing, inventory_level,
		pricing_strategy
		FROM price_logs`
	args := []any{}
	if vehicleID != "" {
		query += ` WHERE vehicle_id = ?`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price logs: %w", err)
	}
	defer rows.Close()

	events := []model.PricingEventSnapshot{}
	for rows.Next() {
		var (
			evt      model.PricingEventSnapshot
			ts       int64
			category string
			strategy string
			f        = &evt.RealTimeFactorsSnapshot
		)
		if err := rows.Scan(&evt.ID, &evt.VehicleID, &ts, &evt.CalculatedPrice,
			&evt.BasePriceSnapshot, &category, &evt.YearSnapshot,
			&evt.VehicleDemandSnapshot, &evt.VehicleInventorySnapshot,
			&f.DemandMultiplier, &f.SeasonalAdjustment, &f.CompetitorPricing, &f.InventoryLevel,
			&strategy,
		); err != nil {
			return nil, fmt.Errorf("scan price log: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts).UTC()
		evt.CategorySnapshot = model.Category(category)
		evt.PricingStrategyUsed, _ = model.ParseStrategy(strategy)
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
