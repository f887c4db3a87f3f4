// Package hardware defines the boundary to the motion-tracking runtime.
//
// The runtime is a black box that, when polled, returns a fixed-length
// array of raw poses. The array index is the device slot. Each entry carries
// a validity flag, a 3×4 transform, a device class and an optional
// controller role.
//
// # Lifecycle
//
// A Source must be opened before polling and closed exactly once. The
// Session type enforces that: it is acquired with OpenSession at process
// start, owned by the poll loop, and rejects polls after Close.
//
//	sess, err := hardware.OpenSession(ctx, src)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	poses, err := sess.Poll(ctx)
//
// # Implementations
//
//   - Simulated: synthetic HMD, base stations, controllers and tracker on
//     deterministic paths (development and demos)
//   - Replay: frames recorded in a YAML file, looped
package hardware
