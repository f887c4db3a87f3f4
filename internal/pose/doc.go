// Package pose converts raw tracking-hardware transforms into the
// position + orientation representation used throughout trackcast.
//
// The hardware reports each device as a 3×4 row-major matrix in the
// tracking origin's frame: columns 0-2 are the rotation basis and column 3
// is the translation. This package extracts:
//
//   - Position: the translation column, axes in hardware order (no remap)
//   - Rotation: a unit quaternion via trace-based extraction
//
// # Usage
//
//	m := pose.IdentityMatrix()
//	p := m.Position() // {0 0 0}
//	q := m.Rotation() // {1 0 0 0}
//
// All functions are pure and safe for concurrent use.
package pose
