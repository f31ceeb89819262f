package missionlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

var t0 = time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC)

func openTemp(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "missionlog.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func snapshotAt(id string, at time.Time, flying bool, alt float64) dronestate.Snapshot {
	s := dronestate.New(id)
	s.SetFlightController(telemetry.FlightController{
		Flying:           flying,
		AircraftLocation: &telemetry.Location3D{Latitude: 47.4, Longitude: 8.5, Altitude: alt},
		HomeLocationSet:  true,
		HomeLocation:     &telemetry.Location{Latitude: 47.4, Longitude: 8.5},
		SatelliteCount:   11,
		Velocity:         telemetry.Vector3{X: 1, Y: 1},
	}, at)
	s.SetBattery(telemetry.Battery{ChargeRemainingPercent: 80}, at)
	return s.Snapshot()
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)

	var want []dronestate.Snapshot
	for i := 0; i < 5; i++ {
		snap := snapshotAt("alpha", t0.Add(time.Duration(i)*time.Second), i > 0, float64(i))
		require.NoError(t, l.Record(ctx, snap))
		want = append(want, snap)
	}
	require.NoError(t, l.Record(ctx, snapshotAt("bravo", t0, false, 0)))

	got, err := l.Recent(ctx, "alpha", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// newest first
	for i, snap := range got {
		if diff := cmp.Diff(want[4-i], snap); diff != "" {
			t.Errorf("snapshot %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	got, err = l.Recent(ctx, "bravo", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = l.Recent(ctx, "charlie", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordWithoutLocation(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)

	snap := dronestate.New("alpha", dronestate.WithClock(func() time.Time { return t0 })).Snapshot()
	require.Nil(t, snap.Location)
	require.NoError(t, l.Record(ctx, snap))

	got, err := l.Recent(ctx, "alpha", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Location)
	assert.Nil(t, got[0].BatteryPercent)
}

func TestFlightTime(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)

	_, ok, err := l.FlightTime(ctx, "alpha")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Record(ctx, snapshotAt("alpha", t0, false, 0)))
	require.NoError(t, l.Record(ctx, snapshotAt("alpha", t0.Add(10*time.Second), true, 5)))
	require.NoError(t, l.Record(ctx, snapshotAt("alpha", t0.Add(70*time.Second), true, 5)))
	require.NoError(t, l.Record(ctx, snapshotAt("alpha", t0.Add(80*time.Second), false, 0)))

	d, ok, err := l.FlightTime(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, d)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missionlog.sqlite")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, snapshotAt("alpha", t0, false, 0)))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	got, err := l.Recent(ctx, "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSchemaVersion(t *testing.T) {
	l := openTemp(t)

	version, dirty, err := l.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}
