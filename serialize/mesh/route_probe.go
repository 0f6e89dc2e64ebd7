package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// RouteProbe is a route discovery request. A zero hop limit tells
// receivers not to relay it, so only direct radio range nodes reply.
type RouteProbe struct {
	*Head
	Dest         uint32
	HopLimit     uint8
	WantResponse bool
}

func NewRouteProbe(dest uint32, hopLimit uint8, wantResponse bool) *RouteProbe {
	return &RouteProbe{
		Head:         NewHeadV1(MsgRouteProbe),
		Dest:         dest,
		HopLimit:     hopLimit,
		WantResponse: wantResponse,
	}
}

// NewZeroHopProbe builds the broadcast probe used by nearby discovery
func NewZeroHopProbe() *RouteProbe {
	return NewRouteProbe(BroadcastAddr, 0, true)
}

func (p *RouteProbe) Marshal() []byte {
	result := new(bytes.Buffer)
	binary.Write(result, binary.BigEndian, p.Head.Marshal())
	binary.Write(result, binary.BigEndian, p.Dest)
	binary.Write(result, binary.BigEndian, p.HopLimit)

	wantRsp := uint8(0)
	if p.WantResponse {
		wantRsp = 1
	}
	binary.Write(result, binary.BigEndian, wantRsp)
	return result.Bytes()
}

func (p *RouteProbe) String() string {
	return fmt.Sprintf("Head %v Dest %08x HopLimit %d WantResponse %v",
		p.Head, p.Dest, p.HopLimit, p.WantResponse)
}

func UnmarshalRouteProbe(data io.Reader) (*RouteProbe, error) {
	result := &RouteProbe{}
	var wantRsp uint8
	var err error

	if result.Head, err = UnmarshalHead(data); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &result.Dest); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &result.HopLimit); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &wantRsp); err != nil {
		return nil, err
	}
	result.WantResponse = wantRsp != 0
	return result, nil
}
