package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"meshscout/utils"
)

const (
	nodeFlagLocal    = uint8(0x01)
	nodeFlagID       = uint8(0x02)
	nodeFlagShort    = uint8(0x04)
	nodeFlagLong     = uint8(0x08)
	nodeFlagSnr      = uint8(0x10)
	nodeFlagLastSeen = uint8(0x20)
	nodeFlagHops     = uint8(0x40)
)

// NodeInfo is one node table entry as reported by the device.
// Optional fields are empty strings / nil pointers / sentinel
// values when the device does not know them.
type NodeInfo struct {
	*Head
	Num      uint32
	IsLocal  bool
	ID       string
	Short    string
	Long     string
	Snr      *float64 // dB
	LastSeen int64    // unix seconds, 0 when unknown
	Hops     uint8    // HopsUnknown when unknown
}

func NewNodeInfo(num uint32) *NodeInfo {
	return &NodeInfo{
		Head: NewHeadV1(MsgNodeInfo),
		Num:  num,
		Hops: HopsUnknown,
	}
}

func (n *NodeInfo) flags() uint8 {
	var f uint8
	if n.IsLocal {
		f |= nodeFlagLocal
	}
	if len(n.ID) != 0 {
		f |= nodeFlagID
	}
	if len(n.Short) != 0 {
		f |= nodeFlagShort
	}
	if len(n.Long) != 0 {
		f |= nodeFlagLong
	}
	if n.Snr != nil {
		f |= nodeFlagSnr
	}
	if n.LastSeen != 0 {
		f |= nodeFlagLastSeen
	}
	if n.Hops != HopsUnknown {
		f |= nodeFlagHops
	}
	return f
}

func (n *NodeInfo) Marshal() []byte {
	result := new(bytes.Buffer)
	binary.Write(result, binary.BigEndian, n.Head.Marshal())
	binary.Write(result, binary.BigEndian, n.Num)

	flags := n.flags()
	binary.Write(result, binary.BigEndian, flags)

	if flags&nodeFlagID != 0 {
		idBytes := []byte(n.ID)
		binary.Write(result, binary.BigEndian, utils.Uint8Len(idBytes))
		binary.Write(result, binary.BigEndian, idBytes)
	}
	if flags&nodeFlagShort != 0 {
		shortBytes := []byte(n.Short)
		binary.Write(result, binary.BigEndian, utils.Uint8Len(shortBytes))
		binary.Write(result, binary.BigEndian, shortBytes)
	}
	if flags&nodeFlagLong != 0 {
		longBytes := []byte(n.Long)
		binary.Write(result, binary.BigEndian, utils.Uint8Len(longBytes))
		binary.Write(result, binary.BigEndian, longBytes)
	}
	if flags&nodeFlagSnr != 0 {
		binary.Write(result, binary.BigEndian, quarterDb(*n.Snr))
	}
	if flags&nodeFlagLastSeen != 0 {
		binary.Write(result, binary.BigEndian, n.LastSeen)
	}
	if flags&nodeFlagHops != 0 {
		binary.Write(result, binary.BigEndian, n.Hops)
	}
	return result.Bytes()
}

func (n *NodeInfo) String() string {
	return fmt.Sprintf("Head %v Num %08x ID %s Short %s Long %s Hops %d",
		n.Head, n.Num, n.ID, n.Short, n.Long, n.Hops)
}

func UnmarshalNodeInfo(data io.Reader) (*NodeInfo, error) {
	result := &NodeInfo{Hops: HopsUnknown}
	var flags uint8
	var err error

	if result.Head, err = UnmarshalHead(data); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &result.Num); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &flags); err != nil {
		return nil, err
	}

	result.IsLocal = flags&nodeFlagLocal != 0

	if flags&nodeFlagID != 0 {
		idBytes, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		result.ID = string(idBytes)
	}
	if flags&nodeFlagShort != 0 {
		shortBytes, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		result.Short = string(shortBytes)
	}
	if flags&nodeFlagLong != 0 {
		longBytes, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		result.Long = string(longBytes)
	}
	if flags&nodeFlagSnr != 0 {
		var raw int16
		if err = binary.Read(data, binary.BigEndian, &raw); err != nil {
			return nil, err
		}
		snr := float64(raw) / 4.0
		result.Snr = &snr
	}
	if flags&nodeFlagLastSeen != 0 {
		if err = binary.Read(data, binary.BigEndian, &result.LastSeen); err != nil {
			return nil, err
		}
	}
	if flags&nodeFlagHops != 0 {
		if err = binary.Read(data, binary.BigEndian, &result.Hops); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// quarterDb converts a dB value to the wire's quarter-dB fixed point
func quarterDb(db float64) int16 {
	return int16(math.Round(db * 4.0))
}
