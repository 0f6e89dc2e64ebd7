package transport

import (
	"go.bug.st/serial"
)

const serialBaudRate = 115200

// DialSerial connects to a device attached on a serial port,
// 115200 8N1.
func DialSerial(path string) (Conn, error) {
	mode := &serial.Mode{
		BaudRate: serialBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, &ConnectError{Address: path, Err: err}
	}

	conn, err := newStreamConn(port)
	if err != nil {
		return nil, &ConnectError{Address: path, Err: err}
	}
	return conn, nil
}
