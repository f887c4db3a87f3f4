package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "trackcast"

// Topics provides builders for trackcast MQTT topics under a prefix.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{Prefix: "lab"}
//	topics.Snapshot() // "lab/snapshot"
type Topics struct {
	Prefix string
}

// prefix returns the configured prefix without trailing slashes.
func (t Topics) prefix() string {
	p := strings.TrimRight(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// Snapshot returns the topic every serialised snapshot is published to.
//
// Example: trackcast/snapshot
func (t Topics) Snapshot() string {
	return fmt.Sprintf("%s/snapshot", t.prefix())
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: trackcast/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}

// All returns a pattern matching every trackcast topic.
//
// Pattern: trackcast/#
func (t Topics) All() string {
	return fmt.Sprintf("%s/#", t.prefix())
}
