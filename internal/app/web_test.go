package app

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/missionlog"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

func newTestServer(t *testing.T) (*Collector, *httptest.Server) {
	t.Helper()
	return newTestServerWithLog(t, nil)
}

func newTestServerWithLog(t *testing.T, missions missionSource) (*Collector, *httptest.Server) {
	t.Helper()
	c := NewCollector(dronestate.New("web-1"))
	srv := &webServer{
		droneID:     "web-1",
		collector:   c,
		missions:    missions,
		interval:    10 * time.Millisecond,
		panelWidth:  128,
		panelHeight: 96,
	}
	ts := httptest.NewServer(srv.routes(""))
	t.Cleanup(ts.Close)
	return c, ts
}

func TestStateEndpoint(t *testing.T) {
	c, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	c.Flight(telemetry.NewSample(groundFlight(), t0))

	resp, err = http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap dronestate.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "web-1", snap.ID)
	require.NotNil(t, snap.Location)
	assert.Equal(t, home, *snap.Location)
}

func TestPanelEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/panel.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
}

func TestWebsocketStreamsSnapshots(t *testing.T) {
	c, ts := newTestServer(t)
	c.Flight(telemetry.NewSample(groundFlight(), t0))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 2; i++ {
		var snap dronestate.Snapshot
		require.NoError(t, conn.ReadJSON(&snap))
		assert.Equal(t, "web-1", snap.ID)
		assert.True(t, snap.Time.Equal(t0))
	}
}

func TestMissionEndpointWithoutLog(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/mission")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMissionEndpoint(t *testing.T) {
	ctx := context.Background()
	mlog, err := missionlog.Open(filepath.Join(t.TempDir(), "log.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mlog.Close() })

	c := NewCollector(dronestate.New("web-1"))
	for i := 0; i < 3; i++ {
		c.Flight(telemetry.NewSample(airborneAt(47.4, 8.55, float64(10*i)), t0.Add(time.Duration(i)*time.Second)))
		snap, _ := c.Snapshot()
		require.NoError(t, mlog.Record(ctx, snap))
	}

	_, ts := newTestServerWithLog(t, mlog)

	resp, err := http.Get(ts.URL + "/mission?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Mission log")
	assert.Contains(t, string(body), "altitude (m)")
	assert.Contains(t, string(body), "drone=web-1 samples=2 flight=2s")

	resp, err = http.Get(ts.URL + "/mission?limit=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissionEndpointOpensLogOnceRecorded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "later.sqlite")

	missions := &lazyMissionLog{path: path}
	t.Cleanup(func() { _ = missions.Close() })
	_, ts := newTestServerWithLog(t, missions)

	resp, err := http.Get(ts.URL + "/mission")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// recorder starts after the web server
	mlog, err := missionlog.Open(path)
	require.NoError(t, err)
	c := NewCollector(dronestate.New("web-1"))
	c.Flight(telemetry.NewSample(groundFlight(), t0))
	snap, _ := c.Snapshot()
	require.NoError(t, mlog.Record(ctx, snap))
	require.NoError(t, mlog.Close())

	resp, err = http.Get(ts.URL + "/mission")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "drone=web-1 samples=1 flight=--")
}

func TestRecorderAndWebShareDroneID(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.Load(filepath.Join("..", "..", "dronestate_config.txt"))
	require.NoError(t, err)

	mlog, err := missionlog.Open(filepath.Join(t.TempDir(), "shared.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mlog.Close() })

	// recorder process
	recID, err := sharedDroneID(cfg)
	require.NoError(t, err)
	recCollector := NewCollector(dronestate.New(recID))
	recCollector.Flight(telemetry.NewSample(airborneAt(47.4, 8.55, 12), t0))
	rec := &recorder{log: mlog, collector: recCollector}
	require.NoError(t, rec.tick(ctx))

	// web process
	webID, err := sharedDroneID(cfg)
	require.NoError(t, err)
	srv := &webServer{
		droneID:     webID,
		collector:   NewCollector(dronestate.New(webID)),
		missions:    mlog,
		interval:    10 * time.Millisecond,
		panelWidth:  128,
		panelHeight: 96,
	}
	ts := httptest.NewServer(srv.routes(""))
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/mission")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "drone="+recID+" samples=1")
}

func TestSharedDroneIDRequiresConfiguredID(t *testing.T) {
	cfg := config.Default()
	cfg.DroneID = ""
	_, err := sharedDroneID(cfg)
	assert.Error(t, err)

	cfg.DroneID = "alpha"
	id, err := sharedDroneID(cfg)
	require.NoError(t, err)
	assert.Equal(t, "alpha", id)
}
