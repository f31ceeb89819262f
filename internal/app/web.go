package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/missionlog"
)

const defaultMissionPoints = 600

func RunWeb() error {
	cfg := config.Get()

	id, err := sharedDroneID(cfg)
	if err != nil {
		return err
	}
	collector := NewCollector(dronestate.New(id))

	// 1) Connect to MQTT broker and feed the collector
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := SubscribeTelemetry(client, cfg, collector); err != nil {
		return err
	}

	// 2) Republish the derived state for other consumers
	go publishState(client, cfg.TopicState, collector, config.Interval(cfg.StatePublishInterval))

	// 3) Mission history, opened once the recorder has created it
	missions := &lazyMissionLog{path: cfg.RecorderDBPath}
	defer missions.Close()

	// 4) HTTP API, websocket and static files
	srv := &webServer{
		droneID:     id,
		collector:   collector,
		missions:    missions,
		interval:    config.Interval(cfg.StatePublishInterval),
		panelWidth:  cfg.PanelWidth,
		panelHeight: cfg.PanelHeight,
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, srv.routes("web"))
}

// sharedDroneID returns the configured id. Processes that share the mission
// log must agree on it, so an empty id is an error.
func sharedDroneID(cfg *config.Config) (string, error) {
	if cfg.DroneID == "" {
		return "", errors.New("DRONE_ID must be set for processes sharing the mission log")
	}
	return cfg.DroneID, nil
}

// droneID returns the configured id, or a fresh one.
func droneID(cfg *config.Config) string {
	if cfg.DroneID != "" {
		return cfg.DroneID
	}
	id := dronestate.NewID()
	log.Printf("no DRONE_ID configured, using %s", id)
	return id
}

func publishState(client mqtt.Client, topic string, c *Collector, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		snap, ok := c.Snapshot()
		if !ok {
			continue
		}
		if err := publishJSON(client, topic, true, snap); err != nil {
			log.Printf("web: state publish error: %v", err)
		}
	}
}

var errNoMissionLog = errors.New("no mission log")

type missionSource interface {
	Recent(ctx context.Context, droneID string, limit int) ([]dronestate.Snapshot, error)
	FlightTime(ctx context.Context, droneID string) (time.Duration, bool, error)
}

// lazyMissionLog opens the recorder's database on first use. Until the file
// exists every query fails with errNoMissionLog.
type lazyMissionLog struct {
	path string

	mu  sync.Mutex
	log *missionlog.Log
}

func (l *lazyMissionLog) open() (*missionlog.Log, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.log != nil {
		return l.log, nil
	}
	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNoMissionLog
		}
		return nil, fmt.Errorf("stat mission log: %w", err)
	}

	mlog, err := missionlog.Open(l.path)
	if err != nil {
		return nil, err
	}
	l.log = mlog
	return mlog, nil
}

func (l *lazyMissionLog) Recent(ctx context.Context, droneID string, limit int) ([]dronestate.Snapshot, error) {
	mlog, err := l.open()
	if err != nil {
		return nil, err
	}
	return mlog.Recent(ctx, droneID, limit)
}

func (l *lazyMissionLog) FlightTime(ctx context.Context, droneID string) (time.Duration, bool, error) {
	mlog, err := l.open()
	if err != nil {
		return 0, false, err
	}
	return mlog.FlightTime(ctx, droneID)
}

func (l *lazyMissionLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.log == nil {
		return nil
	}
	err := l.log.Close()
	l.log = nil
	return err
}

type webServer struct {
	droneID     string
	collector   *Collector
	missions    missionSource
	interval    time.Duration
	panelWidth  int
	panelHeight int
	upgrader    websocket.Upgrader
}

func (s *webServer) routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/panel.png", s.handlePanel)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/mission", s.handleMission)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// JSON API endpoint: latest snapshot
func (s *webServer) handleState(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.collector.Snapshot()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webServer) handlePanel(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.collector.Snapshot()
	img := RenderPanel(snap, ok, s.panelWidth, s.panelHeight)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		log.Printf("web: png encode error: %v", err)
	}
}

// handleWS streams a snapshot every interval until the client goes away.
func (s *webServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close messages are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if snap, ok := s.collector.Snapshot(); ok {
			if err := conn.WriteJSON(snap); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// handleMission charts the recorded history of this drone.
// ?limit=N bounds the number of points.
func (s *webServer) handleMission(w http.ResponseWriter, r *http.Request) {
	if s.missions == nil {
		http.Error(w, "no mission log", http.StatusNotFound)
		return
	}

	limit := defaultMissionPoints
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	snaps, err := s.missions.Recent(r.Context(), s.droneID, limit)
	if errors.Is(err, errNoMissionLog) {
		http.Error(w, "no mission log", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("web: mission log query error: %v", err)
		http.Error(w, "mission log unavailable", http.StatusInternalServerError)
		return
	}

	flight, flown, err := s.missions.FlightTime(r.Context(), s.droneID)
	if err != nil {
		log.Printf("web: flight time query error: %v", err)
		http.Error(w, "mission log unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := renderMissionChart(&buf, s.droneID, snaps, flight, flown); err != nil {
		log.Printf("web: mission chart render error: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
