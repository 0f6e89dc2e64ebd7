package transport

import (
	"errors"
	"fmt"

	"meshscout/serialize/mesh"
)

// InterfaceType selects how to reach the mesh device
type InterfaceType string

const (
	Auto   = InterfaceType("auto")
	Serial = InterfaceType("serial")
	TCP    = InterfaceType("tcp")
	BLE    = InterfaceType("ble")
)

// ErrUnsupportedInterface reports an interface type this build cannot dial
var ErrUnsupportedInterface = errors.New("unsupported interface type")

// ConnectError wraps a failure to establish the device connection
type ConnectError struct {
	Address string
	Err     error
}

func (c *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s failed: %v", c.Address, c.Err)
}

func (c *ConnectError) Unwrap() error {
	return c.Err
}

// Handler receives every decoded inbound message. The reference is
// owned by the Conn for as long as it stays set; passing nil clears it.
type Handler func(msg mesh.Message)

// Conn is an established device connection. The node table and the
// local address are captured during the dial handshake and stay fixed
// for the connection's lifetime.
type Conn interface {
	// LocalAddr returns the local node's numeric address
	LocalAddr() uint32

	// Nodes returns the device node table captured at connect time,
	// including the local node's own entry
	Nodes() []*mesh.NodeInfo

	// Send transmits one message to the device
	Send(msg mesh.Message) error

	// SetHandler installs or clears the inbound message handler
	SetHandler(h Handler)

	Close() error
}

// Dial connects to the device at address, sniffing the interface type
// from the address format when ifaceType is Auto
func Dial(address string, ifaceType InterfaceType) (Conn, error) {
	if ifaceType == Auto {
		ifaceType = DetectInterfaceType(address)
	}

	switch ifaceType {
	case Serial:
		return DialSerial(address)
	case TCP:
		return DialTCP(address)
	case BLE:
		return DialBLE(address)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInterface, ifaceType)
	}
}
