package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/trackcast/internal/device"
	"github.com/nerrad567/trackcast/internal/infrastructure/influxdb"
	"github.com/nerrad567/trackcast/internal/infrastructure/mqtt"
	"github.com/nerrad567/trackcast/internal/tracker"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	SessionID     string          `json:"session_id"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Loop          *tracker.Stats  `json:"loop,omitempty"`
	Devices       DeviceMetrics   `json:"devices"`
	WebSocket     WSMetrics       `json:"websocket"`
	MQTT          MQTTMetrics     `json:"mqtt"`
	InfluxDB      *influxdb.Stats `json:"influxdb,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int    `json:"connected_clients"`
	Broadcasts       uint64 `json:"broadcasts"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Enabled   bool        `json:"enabled"`
	Connected bool        `json:"connected"`
	Delivery  *mqtt.Stats `json:"delivery,omitempty"`
}

// DeviceMetrics contains device registry statistics.
type DeviceMetrics struct {
	Total   int            `json:"total"`
	Tracked int            `json:"tracked"`
	Seen    int            `json:"seen"`
	ByClass map[string]int `json:"by_class"`
}

func deviceMetrics(stats device.Stats) DeviceMetrics {
	m := DeviceMetrics{
		Total:   stats.TotalDevices,
		Tracked: stats.TrackedDevices,
		Seen:    stats.SeenDevices,
		ByClass: make(map[string]int, len(stats.ByClass)),
	}
	for class, count := range stats.ByClass {
		m.ByClass[class.String()] = count
	}
	return m
}

// handleMetrics returns runtime, loop, registry and integration metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		SessionID:     s.sessionID,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Devices: deviceMetrics(s.registry.Stats()),
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
			Broadcasts:       s.hub.Broadcasts(),
		},
	}

	if s.loop != nil {
		stats := s.loop.Stats()
		metrics.Loop = &stats
	}

	if s.mqtt != nil {
		stats := s.mqtt.Stats()
		metrics.MQTT = MQTTMetrics{
			Enabled:   true,
			Connected: s.mqtt.IsConnected(),
			Delivery:  &stats,
		}
	}

	if s.influx != nil {
		stats := s.influx.Stats()
		metrics.InfluxDB = &stats
	}

	writeJSON(w, http.StatusOK, metrics)
}
