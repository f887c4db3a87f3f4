package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/trackcast/internal/device"
)

// Snapshot is one cycle's published state.
type Snapshot struct {
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64           `json:"ts"`
	Trackers  []device.Device `json:"trackers"`
}

// New builds a snapshot stamped with ts. A nil device slice becomes empty so
// the encoding is always an array.
func New(ts time.Time, devices []device.Device) Snapshot {
	if devices == nil {
		devices = []device.Device{}
	}
	return Snapshot{
		Timestamp: ts.UnixMilli(),
		Trackers:  devices,
	}
}

// Time returns the timestamp as a time.Time.
func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Validate checks every device for non-finite pose values.
func (s Snapshot) Validate() error {
	for _, d := range s.Trackers {
		if !d.Position.IsFinite() {
			return fmt.Errorf("%w: device %d position", ErrNonFinite, d.ID)
		}
		if !d.Rotation.IsFinite() {
			return fmt.Errorf("%w: device %d rotation", ErrNonFinite, d.ID)
		}
	}
	return nil
}

// Marshal encodes s as compact JSON.
func Marshal(s Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Trackers == nil {
		s.Trackers = []device.Device{}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a payload produced by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if s.Trackers == nil {
		s.Trackers = []device.Device{}
	}
	return s, nil
}
