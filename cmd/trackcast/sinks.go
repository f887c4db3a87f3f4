package main

import (
	"context"

	"github.com/nerrad567/trackcast/internal/infrastructure/influxdb"
	"github.com/nerrad567/trackcast/internal/infrastructure/mqtt"
	"github.com/nerrad567/trackcast/internal/snapshot"
)

// mqttSink mirrors each payload to the snapshot topic.
type mqttSink struct {
	client *mqtt.Client
}

func (s mqttSink) Name() string { return "mqtt" }

func (s mqttSink) Publish(_ context.Context, _ snapshot.Snapshot, payload []byte) error {
	return s.client.PublishSnapshot(payload)
}

// influxSink records the pose of every tracked device.
type influxSink struct {
	client *influxdb.Client
}

func (s influxSink) Name() string { return "influxdb" }

func (s influxSink) Publish(_ context.Context, snap snapshot.Snapshot, _ []byte) error {
	if poses := posesFromSnapshot(snap); len(poses) > 0 {
		s.client.WritePoses(poses)
	}
	return nil
}

// posesFromSnapshot converts tracked devices to telemetry points. Stale poses
// of untracked devices are skipped so the history only holds live data.
func posesFromSnapshot(snap snapshot.Snapshot) []influxdb.Pose {
	ts := snap.Time()
	poses := make([]influxdb.Pose, 0, len(snap.Trackers))
	for _, d := range snap.Trackers {
		if !d.Tracked {
			continue
		}
		poses = append(poses, influxdb.Pose{
			DeviceID: d.ID,
			Class:    d.Class.String(),
			X:        d.Position.X,
			Y:        d.Position.Y,
			Z:        d.Position.Z,
			QW:       d.Rotation.W,
			QX:       d.Rotation.X,
			QY:       d.Rotation.Y,
			QZ:       d.Rotation.Z,
			Time:     ts,
		})
	}
	return poses
}
