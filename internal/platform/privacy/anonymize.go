// Package privacy provides helpers for keeping personally identifiable
// information out of logs.
package privacy

import (
	"fmt"
	"net"
)

// AnonymizeIP truncates an address to its network prefix before it reaches a
// log line: IPv4 is masked to /24 (last octet zeroed), IPv6 to its /48
// prefix. Returns "invalid" for unparseable addresses and "unknown" for
// empty strings.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	// Check for IPv4 (including IPv4-mapped IPv6)
	if v4 := parsed.To4(); v4 != nil {
		// Zero the last octet for /24 anonymization
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	// IPv6: Zero the last 80 bits, keeping only the /48 prefix
	// IPv6 is 16 bytes, /48 prefix = first 6 bytes
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
