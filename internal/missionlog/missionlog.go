// Package missionlog persists drone snapshots to a local SQLite file.
package missionlog

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/relabs-tech/dronestate/internal/dronestate"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Log is an append-only store of snapshots.
type Log struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mission log %s: %w", path, err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("missionlog: opened %s", path)
	return &Log{db: db}, nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateUp applies pending migrations. m is not closed because that
// would close db as well.
func migrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("mission log migration failed: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (l *Log) SchemaVersion() (version uint, dirty bool, err error) {
	m, err := newMigrate(l.db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Printf("missionlog: migrate: "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// Close releases the database.
func (l *Log) Close() error {
	return l.db.Close()
}

const insertSnapshotSQL = `
INSERT INTO snapshots (drone_id, taken_at_ns, flying, latitude, longitude,
	altitude, horizontal_speed, vertical_speed, battery_percent, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Record appends snap. The full snapshot is kept as JSON next to the
// indexed columns.
func (l *Log) Record(ctx context.Context, snap dronestate.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	var lat, lon, battery sql.NullFloat64
	if snap.Location != nil {
		lat = sql.NullFloat64{Float64: snap.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: snap.Location.Longitude, Valid: true}
	}
	if snap.BatteryPercent != nil {
		battery = sql.NullFloat64{Float64: *snap.BatteryPercent, Valid: true}
	}
	flying := 0
	if snap.Flying {
		flying = 1
	}

	_, err = l.db.ExecContext(ctx, insertSnapshotSQL,
		snap.ID, snap.Time.UnixNano(), flying, lat, lon,
		snap.Altitude, snap.HorizontalSpeed, snap.VerticalSpeed, battery, string(payload))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

const recentSQL = `
SELECT payload FROM snapshots
WHERE drone_id = ?
ORDER BY taken_at_ns DESC, id DESC
LIMIT ?`

// Recent returns up to limit snapshots of droneID, newest first.
func (l *Log) Recent(ctx context.Context, droneID string, limit int) (snaps []dronestate.Snapshot, err error) {
	rows, err := l.db.QueryContext(ctx, recentSQL, droneID, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() {
		if cErr := rows.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cErr)
		}
	}()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snap dronestate.Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// FlightTime returns the span between the first and last flying snapshot
// recorded for droneID. ok is false when none was flying.
func (l *Log) FlightTime(ctx context.Context, droneID string) (d time.Duration, ok bool, err error) {
	var first, last sql.NullInt64
	err = l.db.QueryRowContext(ctx,
		`SELECT MIN(taken_at_ns), MAX(taken_at_ns) FROM snapshots WHERE drone_id = ? AND flying = 1`,
		droneID).Scan(&first, &last)
	if err != nil {
		return 0, false, fmt.Errorf("query flight time: %w", err)
	}
	if !first.Valid || !last.Valid {
		return 0, false, nil
	}
	return time.Duration(last.Int64 - first.Int64), true, nil
}
