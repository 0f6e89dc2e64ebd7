package transport

import (
	"net"
	"regexp"
	"strings"
)

var (
	macPattern      = regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
	hostnamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-\.]*$`)
)

// DetectInterfaceType classifies an address by its format:
// serial device paths, BLE MAC addresses or device names, and
// IP/hostname (optionally with a port) for TCP.
func DetectInterfaceType(address string) InterfaceType {
	if strings.HasPrefix(address, "/dev/") || strings.HasPrefix(address, "COM") {
		return Serial
	}
	if macPattern.MatchString(address) {
		return BLE
	}
	if net.ParseIP(address) != nil {
		return TCP
	}
	if host, _, err := net.SplitHostPort(address); err == nil && len(host) != 0 {
		return TCP
	}
	if hostnamePattern.MatchString(address) && strings.Contains(address, ".") {
		return TCP
	}
	// node names, uuids and other formats default to BLE
	return BLE
}
