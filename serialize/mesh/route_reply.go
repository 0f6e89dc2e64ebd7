package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"meshscout/utils"
)

const (
	replyFlagFromID = uint8(0x01)
	replyFlagRxSnr  = uint8(0x02)
	replyFlagRxRssi = uint8(0x04)
	replyFlagRelay  = uint8(0x08)
)

// RouteReply is a route discovery response. Firmware versions differ
// in how much of it they fill in, so everything past From is optional.
type RouteReply struct {
	*Head
	From       uint32
	FromID     string
	RxSnr      *float64 // dB, measured by the local radio
	RxRssi     *int     // dBm
	Relay      *uint8   // low byte of the relaying node address
	SnrTowards []int32  // raw quarter-dB path samples
}

func NewRouteReply(from uint32) *RouteReply {
	return &RouteReply{
		Head: NewHeadV1(MsgRouteReply),
		From: from,
	}
}

func (r *RouteReply) flags() uint8 {
	var f uint8
	if len(r.FromID) != 0 {
		f |= replyFlagFromID
	}
	if r.RxSnr != nil {
		f |= replyFlagRxSnr
	}
	if r.RxRssi != nil {
		f |= replyFlagRxRssi
	}
	if r.Relay != nil {
		f |= replyFlagRelay
	}
	return f
}

func (r *RouteReply) Marshal() []byte {
	result := new(bytes.Buffer)
	binary.Write(result, binary.BigEndian, r.Head.Marshal())
	binary.Write(result, binary.BigEndian, r.From)

	flags := r.flags()
	binary.Write(result, binary.BigEndian, flags)

	if flags&replyFlagFromID != 0 {
		idBytes := []byte(r.FromID)
		binary.Write(result, binary.BigEndian, utils.Uint8Len(idBytes))
		binary.Write(result, binary.BigEndian, idBytes)
	}
	if flags&replyFlagRxSnr != 0 {
		binary.Write(result, binary.BigEndian, quarterDb(*r.RxSnr))
	}
	if flags&replyFlagRxRssi != 0 {
		binary.Write(result, binary.BigEndian, int16(*r.RxRssi))
	}
	if flags&replyFlagRelay != 0 {
		binary.Write(result, binary.BigEndian, *r.Relay)
	}

	binary.Write(result, binary.BigEndian, uint8(len(r.SnrTowards)))
	for _, sample := range r.SnrTowards {
		binary.Write(result, binary.BigEndian, sample)
	}
	return result.Bytes()
}

func (r *RouteReply) String() string {
	return fmt.Sprintf("Head %v From %08x FromID %s Towards %v",
		r.Head, r.From, r.FromID, r.SnrTowards)
}

func UnmarshalRouteReply(data io.Reader) (*RouteReply, error) {
	result := &RouteReply{}
	var flags uint8
	var err error

	if result.Head, err = UnmarshalHead(data); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &result.From); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &flags); err != nil {
		return nil, err
	}

	if flags&replyFlagFromID != 0 {
		idBytes, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		result.FromID = string(idBytes)
	}
	if flags&replyFlagRxSnr != 0 {
		var raw int16
		if err = binary.Read(data, binary.BigEndian, &raw); err != nil {
			return nil, err
		}
		snr := float64(raw) / 4.0
		result.RxSnr = &snr
	}
	if flags&replyFlagRxRssi != 0 {
		var raw int16
		if err = binary.Read(data, binary.BigEndian, &raw); err != nil {
			return nil, err
		}
		rssi := int(raw)
		result.RxRssi = &rssi
	}
	if flags&replyFlagRelay != 0 {
		var relay uint8
		if err = binary.Read(data, binary.BigEndian, &relay); err != nil {
			return nil, err
		}
		result.Relay = &relay
	}

	var towardsN uint8
	if err = binary.Read(data, binary.BigEndian, &towardsN); err != nil {
		return nil, err
	}
	for i := uint8(0); i < towardsN; i++ {
		var sample int32
		if err = binary.Read(data, binary.BigEndian, &sample); err != nil {
			return nil, err
		}
		result.SnrTowards = append(result.SnrTowards, sample)
	}
	return result, nil
}
