package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"meshscout/params"
)

type Head struct {
	Version  params.ProtocolVersion
	Type     MeshMsgType
	Time     int64
	Reserved uint16
}

func NewHeadV1(t MeshMsgType) *Head {
	return &Head{
		Version:  params.CurrentProtocolVersion,
		Type:     t,
		Time:     time.Now().Unix(),
		Reserved: uint16(0),
	}
}

func UnmarshalHead(data io.Reader) (*Head, error) {
	result := &Head{}
	if err := binary.Read(data, binary.BigEndian, &result.Version); err != nil {
		return nil, err
	}
	if err := binary.Read(data, binary.BigEndian, &result.Type); err != nil {
		return nil, err
	}
	if err := binary.Read(data, binary.BigEndian, &result.Time); err != nil {
		return nil, err
	}
	if err := binary.Read(data, binary.BigEndian, &result.Reserved); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Head) Marshal() []byte {
	result := new(bytes.Buffer)
	binary.Write(result, binary.BigEndian, h.Version)
	binary.Write(result, binary.BigEndian, h.Type)
	binary.Write(result, binary.BigEndian, h.Time)
	binary.Write(result, binary.BigEndian, h.Reserved)
	return result.Bytes()
}

// MsgType reports the message type carried in the head
func (h *Head) MsgType() MeshMsgType {
	return h.Type
}

func (h *Head) String() string {
	return fmt.Sprintf("Version %d Type %d Time %s",
		h.Version, h.Type, time.Unix(h.Time, 0).Format("2006/01/02 15:04:05"))
}
