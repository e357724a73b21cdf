// Package influx records sensor samples to InfluxDB for history dashboards.
package influx

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/core"
)

const (
	measurement        = "sensor_readings"
	unknownHome        = "unknown"
	defaultPingTimeout = 5 * time.Second
)

// Writer implements core.Recorder on top of the batching InfluxDB write API.
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu        sync.RWMutex
	connected bool

	log *zerolog.Logger
}

// Connect pings the server and prepares a batching writer.
func Connect(ctx context.Context, cfg config.InfluxConfig, logger *zerolog.Logger) (*Writer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	opts := influxdb2.DefaultOptions()
	if cfg.BatchSize > 0 {
		opts.SetBatchSize(uint(cfg.BatchSize))
	}
	if cfg.FlushInterval > 0 {
		opts.SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	w := &Writer{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		connected: true,
		log:       logger,
	}
	go w.handleWriteErrors(w.writeAPI.Errors())

	return w, nil
}

func (w *Writer) handleWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		w.log.Warn().Err(err).Msg("influx write failed")
	}
}

// Record queues one point for the sample. Writes are batched and flushed
// in the background.
func (w *Writer) Record(_ context.Context, sample core.Sample) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.connected {
		return ErrNotConnected
	}
	point := newPoint(sample, time.Now())
	if point == nil {
		return nil
	}
	w.writeAPI.WritePoint(point)
	return nil
}

// Close flushes pending points and releases the client.
func (w *Writer) Close() error {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return nil
	}
	w.connected = false
	w.mu.Unlock()

	w.writeAPI.Flush()
	w.client.Close()
	return nil
}

// newPoint converts a sample into a point, or nil when nothing was reported.
func newPoint(sample core.Sample, ts time.Time) *write.Point {
	fields := make(map[string]interface{}, 4)
	if sample.Humidity != nil {
		fields["humidity"] = *sample.Humidity
	}
	if sample.Temperature != nil {
		fields["temperature"] = *sample.Temperature
	}
	if sample.LightIntensity != nil {
		fields["light_intensity"] = *sample.LightIntensity
	}
	if sample.Motion != nil {
		fields["motion"] = *sample.Motion
	}
	if len(fields) == 0 {
		return nil
	}

	home := sample.HomeID
	if home == "" {
		home = unknownHome
	}
	return write.NewPoint(measurement, map[string]string{"home_id": home}, fields, ts)
}
