// Package api serves the read-only status surface of a running broadcaster.
//
// This package provides:
//   - REST endpoints for health, registry contents and metrics
//   - a WebSocket stream carrying every published snapshot
//   - middleware for request IDs, request logging and panic recovery
//
// # Routes
//
//	GET /api/v1/health          status, version, session id
//	GET /api/v1/devices         registry contents; ?seen=true for the broadcast view
//	GET /api/v1/devices/stats   registry counts
//	GET /api/v1/devices/{id}    one device by slot id
//	GET /api/v1/metrics         runtime, loop, registry and integration metrics
//	GET /api/v1/ws              snapshot stream
//
// # WebSocket
//
// Each snapshot arrives as
//
//	{"type":"event","event_type":"snapshot","timestamp":"...","payload":{"ts":...,"trackers":[...]}}
//
// Clients may send {"type":"ping","id":"1"} and receive a pong carrying the
// same id. The Hub is registered with the poll loop as a sink; it never
// writes to the registry.
package api
