// Package device keeps the per-slot state of every tracked device.
//
// The hardware reports a fixed-size array of raw poses each poll. The
// Registry turns those into Device records: position and rotation from the
// pose transform, a simplified Class from the hardware class and controller
// role, and two lifecycle flags.
//
//   - Tracked: the most recent poll reported a valid pose for the slot.
//   - Seen: Tracked has been true at least once. Never reset.
//
// A device that stops tracking keeps its last pose and class. Devices are
// never removed.
//
// # Missing slots
//
// A known device whose slot is absent from a batch is marked untracked by
// default (MissingSlotUntracked). MissingSlotUnchanged leaves it as it was.
// With a fixed-size hardware array the case never arises.
//
// # Usage
//
//	registry := device.NewRegistry()
//	registry.SetLogger(log)
//
//	poses, err := session.Poll(ctx)
//	if err != nil {
//	    return err
//	}
//	registry.Ingest(device.EntriesFromPoll(poses))
//	devices := registry.Snapshot(device.FilterSeen)
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Snapshot and Get
// return copies.
package device
