package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/trackcast/internal/infrastructure/config"
	"github.com/nerrad567/trackcast/internal/infrastructure/influxdb"
)

// fakeInflux answers /ping and records line-protocol bodies posted to /write.
type fakeInflux struct {
	mu        sync.Mutex
	bodies    []string
	writeCode int
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/ping"):
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(r.URL.Path, "/write"):
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.bodies = append(f.bodies, string(body))
		code := f.writeCode
		f.mu.Unlock()
		if code == 0 {
			code = http.StatusNoContent
		}
		if code >= 400 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"code":"invalid","message":"rejected"}`))
			return
		}
		w.WriteHeader(code)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeInflux) received() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.bodies, "\n")
}

func newFakeServer(t *testing.T) (*fakeInflux, config.InfluxDBConfig) {
	t.Helper()
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, config.InfluxDBConfig{
		Enabled:       true,
		URL:           srv.URL,
		Token:         "test-token",
		Org:           "trackcast",
		Bucket:        "poses",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	_, cfg := newFakeServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestConnect_Disabled(t *testing.T) {
	_, cfg := newFakeServer(t)
	cfg.Enabled = false

	_, err := influxdb.Connect(context.Background(), cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := influxdb.Connect(context.Background(), config.InfluxDBConfig{Enabled: true, URL: url})
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_DefaultBatchSettings(t *testing.T) {
	_, cfg := newFakeServer(t)
	cfg.BatchSize = 0
	cfg.FlushInterval = -1

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()
}

// =============================================================================
// Write Tests
// =============================================================================

func TestNewPosePoint(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	p := influxdb.NewPosePoint(influxdb.Pose{
		DeviceID: 3,
		Class:    "LeftController",
		X:        0.5, Y: 1.25, Z: -2,
		QW: 1,
		Time: ts,
	})

	if p.Name() != influxdb.MeasurementDevicePose {
		t.Errorf("Name() = %q, want %q", p.Name(), influxdb.MeasurementDevicePose)
	}
	if !p.Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", p.Time(), ts)
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["device_id"] != "3" || tags["class"] != "LeftController" {
		t.Errorf("unexpected tags: %v", tags)
	}

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	want := map[string]float64{"x": 0.5, "y": 1.25, "z": -2, "qw": 1, "qx": 0, "qy": 0, "qz": 0}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestWritePoses(t *testing.T) {
	fake, cfg := newFakeServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	client.WritePoses([]influxdb.Pose{
		{DeviceID: 0, Class: "HMD", Y: 1.5, QW: 1, Time: time.UnixMilli(1700000000000)},
		{DeviceID: 4, Class: "RightController", X: 0.25, QW: 1, Time: time.UnixMilli(1700000000000)},
	})
	client.Flush()

	waitFor(t, func() bool {
		body := fake.received()
		return strings.Contains(body, "device_id=0") && strings.Contains(body, "device_id=4")
	})

	body := fake.received()
	if !strings.Contains(body, "device_pose,class=HMD,device_id=0 ") {
		t.Errorf("missing HMD line in %q", body)
	}
	if !strings.Contains(body, "1700000000000") {
		t.Errorf("expected millisecond timestamp in %q", body)
	}

	if got := client.Stats().PointsQueued; got != 2 {
		t.Errorf("PointsQueued = %d, want 2", got)
	}
}

func TestWritePoses_ErrorCallback(t *testing.T) {
	fake, cfg := newFakeServer(t)
	fake.writeCode = http.StatusBadRequest

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	var mu sync.Mutex
	var writeErr error
	client.SetOnError(func(err error) {
		mu.Lock()
		writeErr = err
		mu.Unlock()
	})

	client.WritePoses([]influxdb.Pose{{DeviceID: 1, Class: "Tracker", QW: 1, Time: time.Now()}})
	client.Flush()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return writeErr != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(writeErr, influxdb.ErrWriteFailed) {
		t.Errorf("callback error = %v, want ErrWriteFailed", writeErr)
	}
}

func TestWritePoses_AfterClose(t *testing.T) {
	fake, cfg := newFakeServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	client.WritePoses([]influxdb.Pose{{DeviceID: 1, Class: "Tracker", QW: 1, Time: time.Now()}})
	client.Flush()

	if got := fake.received(); got != "" {
		t.Errorf("expected no writes after Close, got %q", got)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c influxdb.Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
