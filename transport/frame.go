package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Stream transports carry messages inside frames:
//
// +--------+--------+---------+---------+
// | Magic0 | Magic1 | Length  | Payload |
// +--------+--------+---------+---------+
// (bytes)
// Magic0   1 (0xA7)
// Magic1   1 (0x3E)
// Length   2, big endian
// Payload  Length
const (
	frameMagic0 = byte(0xA7)
	frameMagic1 = byte(0x3E)

	maxFrameLen = 2048
)

func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameLen {
		return fmt.Errorf("frame payload too large: %d", len(payload))
	}

	header := []byte{
		frameMagic0,
		frameMagic1,
		byte(len(payload) >> 8),
		byte(len(payload)),
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame scans past any noise bytes until a magic pair is found,
// then reads one length-prefixed payload. Oversized lengths are
// treated as noise and the scan restarts.
func readFrame(r *bufio.Reader) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != frameMagic0 {
			continue
		}

		// consume runs of magic0 so a stray one right before a real
		// frame start cannot swallow it
		for b == frameMagic0 {
			b, err = r.ReadByte()
			if err != nil {
				return nil, err
			}
		}
		if b != frameMagic1 {
			continue
		}

		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, err
		}
		if length > maxFrameLen {
			continue
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		return payload, nil
	}
}
