package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/trackcast/internal/device"
)

// handleListDevices returns the registry contents in slot order.
//
// Query parameters:
//   - seen: when true, only devices observed at least once (the broadcast view)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	filter := device.FilterAll
	if raw := r.URL.Query().Get("seen"); raw != "" {
		seen, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, "seen must be a boolean")
			return
		}
		if seen {
			filter = device.FilterSeen
		}
	}

	devices := s.registry.Snapshot(filter)
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by slot id.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeBadRequest(w, "device id must be a non-negative integer")
		return
	}

	dev, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleDeviceStats returns registry counts.
func (s *Server) handleDeviceStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, deviceMetrics(s.registry.Stats()))
}
