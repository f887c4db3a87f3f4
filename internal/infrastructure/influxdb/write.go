package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementDevicePose is the measurement every pose is written to.
const MeasurementDevicePose = "device_pose"

// Pose is one device's position and orientation at an instant.
type Pose struct {
	DeviceID int
	Class    string

	X, Y, Z        float64
	QW, QX, QY, QZ float64

	Time time.Time
}

// NewPosePoint converts a Pose into a line-protocol point.
//
// Tags: device_id, class. Fields: x, y, z, qw, qx, qy, qz.
func NewPosePoint(p Pose) *write.Point {
	return write.NewPoint(
		MeasurementDevicePose,
		map[string]string{
			"device_id": strconv.Itoa(p.DeviceID),
			"class":     p.Class,
		},
		map[string]interface{}{
			"x":  p.X,
			"y":  p.Y,
			"z":  p.Z,
			"qw": p.QW,
			"qx": p.QX,
			"qy": p.QY,
			"qz": p.QZ,
		},
		p.Time,
	)
}

// WritePoses queues one point per pose. The write is non-blocking; data is
// batched and sent asynchronously. Does nothing when disconnected.
func (c *Client) WritePoses(poses []Pose) {
	if !c.IsConnected() {
		return
	}

	for _, p := range poses {
		c.writeAPI.WritePoint(NewPosePoint(p))
	}
	c.pointsQueued.Add(uint64(len(poses)))
}
