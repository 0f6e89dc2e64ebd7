package transport

import (
	"fmt"
	"net"
	"time"

	"meshscout/params"
)

const tcpDialTimeout = 5 * time.Second

// DialTCP connects to a device exposing its client API over an IP
// socket. The default API port is appended when the address carries
// none.
func DialTCP(address string) (Conn, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = fmt.Sprintf("%s:%d", address, params.DefaultTCPPort)
	}

	nc, err := net.DialTimeout("tcp", address, tcpDialTimeout)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	conn, err := newStreamConn(nc)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}
	return conn, nil
}
