package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/missionlog"
)

// RunRecorder ingests telemetry and appends a snapshot to the mission log
// at every interval in which a new flight sample arrived.
func RunRecorder() error {
	cfg := config.Get()

	id, err := sharedDroneID(cfg)
	if err != nil {
		return err
	}

	mlog, err := missionlog.Open(cfg.RecorderDBPath)
	if err != nil {
		return err
	}
	defer mlog.Close()

	version, dirty, err := mlog.SchemaVersion()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("mission log %s is dirty at schema version %d", cfg.RecorderDBPath, version)
	}
	log.Printf("recorder: mission log %s at schema version %d", cfg.RecorderDBPath, version)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDRecorder)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	collector := NewCollector(dronestate.New(id))
	if err := SubscribeTelemetry(client, cfg, collector); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(config.Interval(cfg.RecorderInterval))
	defer ticker.Stop()

	rec := &recorder{log: mlog, collector: collector}
	for {
		select {
		case <-ctx.Done():
			log.Printf("recorder: shutting down after %d snapshots", rec.count)
			logFlightTime(mlog, id)
			return nil
		case <-ticker.C:
			if err := rec.tick(ctx); err != nil {
				log.Printf("recorder: %v", err)
			}
		}
	}
}

func logFlightTime(mlog *missionlog.Log, id string) {
	d, ok, err := mlog.FlightTime(context.Background(), id)
	switch {
	case err != nil:
		log.Printf("recorder: flight time: %v", err)
	case ok:
		log.Printf("recorder: drone %s logged %s of flight", id, d.Round(time.Second))
	}
}

type snapshotRecorder interface {
	Record(ctx context.Context, snap dronestate.Snapshot) error
}

type recorder struct {
	log       snapshotRecorder
	collector *Collector

	last  time.Time
	count int
}

// tick records the current snapshot unless it is the one already stored.
func (r *recorder) tick(ctx context.Context) error {
	snap, ok := r.collector.Snapshot()
	if !ok || snap.Time.Equal(r.last) {
		return nil
	}
	if err := r.log.Record(ctx, snap); err != nil {
		return err
	}
	r.last = snap.Time
	r.count++
	return nil
}
