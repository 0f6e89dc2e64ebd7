package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type MeshMsgType = uint8

const (
	// mesh message type
	MsgGetNodes   = MeshMsgType(1)
	MsgNodeInfo   = MeshMsgType(2)
	MsgNodesEnd   = MeshMsgType(3)
	MsgRouteProbe = MeshMsgType(4)
	MsgRouteReply = MeshMsgType(5)
)

// BroadcastAddr is the all-nodes destination address
const BroadcastAddr = uint32(0xFFFFFFFF)

// HopsUnknown marks an unknown hops-away value
const HopsUnknown = uint8(0xFF)

// NodeID returns the canonical textual identifier for a numeric
// node address, e.g. !0a0b0c0d
func NodeID(num uint32) string {
	return fmt.Sprintf("!%08x", num)
}

// Message is any decoded protocol message
type Message interface {
	Marshal() []byte
	MsgType() MeshMsgType
}

// Unmarshal decodes one message, dispatching on the head type
func Unmarshal(data []byte) (Message, error) {
	head, err := UnmarshalHead(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	switch head.Type {
	case MsgGetNodes:
		return UnmarshalGetNodes(bytes.NewReader(data))
	case MsgNodeInfo:
		return UnmarshalNodeInfo(bytes.NewReader(data))
	case MsgNodesEnd:
		return UnmarshalNodesEnd(bytes.NewReader(data))
	case MsgRouteProbe:
		return UnmarshalRouteProbe(bytes.NewReader(data))
	case MsgRouteReply:
		return UnmarshalRouteReply(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown mesh message type %d", head.Type)
	}
}

// readBytes reads a uint8 length-prefixed byte string
func readBytes(data io.Reader) ([]byte, error) {
	var length uint8
	if err := binary.Read(data, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if err := binary.Read(data, binary.BigEndian, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

/*
Head
+---------+------+--------+----------+
| Version | Type |  Time  | Reserved |
+---------+------+--------+----------+
(bytes)
Version     1
Type        1
Time        8
Reserved    2


GetNodes
+---------------------------+
|           (Head)          |
+---------------------------+


NodeInfo
+---------------------------+
|           (Head)          |
+---------------------------+
|    Num    |     Flags     |
+---------------------------+
|  [IDL | ID]               |
+---------------------------+
|  [ShortL | Short]         |
+---------------------------+
|  [LongL | Long]           |
+---------------------------+
|  [Snr] [LastSeen] [Hops]  |
+---------------------------+
(bytes)
Num         4
Flags       1 (local 0x01, id 0x02, short 0x04, long 0x08,
               snr 0x10, lastSeen 0x20, hops 0x40)
ID          flag-gated, length-prefixed
Short       flag-gated, length-prefixed
Long        flag-gated, length-prefixed
Snr         flag-gated, 2, quarter-dB
LastSeen    flag-gated, 8, unix seconds
Hops        flag-gated, 1


NodesEnd
+---------------------------+
|           (Head)          |
+---------------------------+
|         LocalNum          |
+---------------------------+
(bytes)
LocalNum    4


RouteProbe
+---------------------------+
|           (Head)          |
+------+----------+---------+
| Dest | HopLimit | WantRsp |
+------+----------+---------+
(bytes)
Dest        4
HopLimit    1
WantRsp     1


RouteReply
+---------------------------+
|           (Head)          |
+---------------------------+
|    From   |     Flags     |
+---------------------------+
|  [FromIDL | FromID]       |
+---------------------------+
|  [RxSnr] [RxRssi] [Relay] |
+---------------------------+
| TowardsN | Towards...     |
+---------------------------+
(bytes)
From        4
Flags       1 (fromId 0x01, rxSnr 0x02, rxRssi 0x04, relay 0x08)
FromID      flag-gated, length-prefixed
RxSnr       flag-gated, 2, quarter-dB
RxRssi      flag-gated, 2, dBm
Relay       flag-gated, 1, low byte of the relaying node address
TowardsN    1
Towards     4 * TowardsN, quarter-dB
*/
