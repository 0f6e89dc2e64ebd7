package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"meshscout/params"
)

func verifyHead(t *testing.T, expect *Head, result *Head) {
	require.Equal(t, expect.Version, result.Version, "head version")
	require.Equal(t, expect.Type, result.Type, "head type")
	require.Equal(t, expect.Time, result.Time, "head time")
}

func TestRouteProbe(t *testing.T) {
	probe := NewZeroHopProbe()
	probeBytes := probe.Marshal()

	rProbe, err := UnmarshalRouteProbe(bytes.NewReader(probeBytes))
	require.NoError(t, err)

	verifyHead(t, probe.Head, rProbe.Head)
	require.Equal(t, BroadcastAddr, rProbe.Dest)
	require.Equal(t, uint8(0), rProbe.HopLimit)
	require.True(t, rProbe.WantResponse)
}

func TestNodeInfoFull(t *testing.T) {
	snr := 7.25
	info := NewNodeInfo(0x0a0b0c0d)
	info.ID = "!0a0b0c0d"
	info.Short = "AB"
	info.Long = "Alpha Base"
	info.Snr = &snr
	info.LastSeen = 1700000000
	info.Hops = 2

	rInfo, err := UnmarshalNodeInfo(bytes.NewReader(info.Marshal()))
	require.NoError(t, err)

	verifyHead(t, info.Head, rInfo.Head)
	require.Equal(t, info.Num, rInfo.Num)
	require.False(t, rInfo.IsLocal)
	require.Equal(t, "!0a0b0c0d", rInfo.ID)
	require.Equal(t, "AB", rInfo.Short)
	require.Equal(t, "Alpha Base", rInfo.Long)
	require.NotNil(t, rInfo.Snr)
	require.Equal(t, 7.25, *rInfo.Snr)
	require.Equal(t, int64(1700000000), rInfo.LastSeen)
	require.Equal(t, uint8(2), rInfo.Hops)
}

func TestNodeInfoBare(t *testing.T) {
	info := NewNodeInfo(0x00000042)
	info.IsLocal = true

	rInfo, err := UnmarshalNodeInfo(bytes.NewReader(info.Marshal()))
	require.NoError(t, err)

	require.True(t, rInfo.IsLocal)
	require.Empty(t, rInfo.ID)
	require.Empty(t, rInfo.Short)
	require.Empty(t, rInfo.Long)
	require.Nil(t, rInfo.Snr)
	require.Equal(t, int64(0), rInfo.LastSeen)
	require.Equal(t, HopsUnknown, rInfo.Hops)
}

func TestRouteReplyFull(t *testing.T) {
	snr := -3.5
	rssi := -42
	relay := uint8(0x0d)

	reply := NewRouteReply(0x0a0b0c0d)
	reply.FromID = "!0a0b0c0d"
	reply.RxSnr = &snr
	reply.RxRssi = &rssi
	reply.Relay = &relay
	reply.SnrTowards = []int32{0, 48}

	rReply, err := UnmarshalRouteReply(bytes.NewReader(reply.Marshal()))
	require.NoError(t, err)

	verifyHead(t, reply.Head, rReply.Head)
	require.Equal(t, reply.From, rReply.From)
	require.Equal(t, "!0a0b0c0d", rReply.FromID)
	require.Equal(t, -3.5, *rReply.RxSnr)
	require.Equal(t, -42, *rReply.RxRssi)
	require.Equal(t, uint8(0x0d), *rReply.Relay)
	require.Equal(t, []int32{0, 48}, rReply.SnrTowards)
}

func TestRouteReplyBare(t *testing.T) {
	reply := NewRouteReply(0x0a0b0c0d)

	rReply, err := UnmarshalRouteReply(bytes.NewReader(reply.Marshal()))
	require.NoError(t, err)

	require.Empty(t, rReply.FromID)
	require.Nil(t, rReply.RxSnr)
	require.Nil(t, rReply.RxRssi)
	require.Nil(t, rReply.Relay)
	require.Empty(t, rReply.SnrTowards)
}

func TestNodesEnd(t *testing.T) {
	end := NewNodesEnd(0x12345678)

	rEnd, err := UnmarshalNodesEnd(bytes.NewReader(end.Marshal()))
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), rEnd.LocalNum)
}

func TestUnmarshalDispatch(t *testing.T) {
	msg, err := Unmarshal(NewZeroHopProbe().Marshal())
	require.NoError(t, err)
	require.Equal(t, MsgRouteProbe, msg.MsgType())
	_, ok := msg.(*RouteProbe)
	require.True(t, ok)

	msg, err = Unmarshal(NewGetNodes().Marshal())
	require.NoError(t, err)
	_, ok = msg.(*GetNodes)
	require.True(t, ok)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal(nil)
	require.Error(t, err)

	head := NewHeadV1(MeshMsgType(99))
	_, err = Unmarshal(head.Marshal())
	require.Error(t, err)

	// truncated reply: flags promise a FromID that is not there
	reply := NewRouteReply(1)
	reply.FromID = "!00000001"
	raw := reply.Marshal()
	_, err = UnmarshalRouteReply(bytes.NewReader(raw[:len(raw)-8]))
	require.Error(t, err)
}

func TestHeadVersionStamp(t *testing.T) {
	head := NewHeadV1(MsgRouteProbe)
	require.Equal(t, params.CurrentProtocolVersion, head.Version)

	decoded, err := UnmarshalHead(bytes.NewReader(head.Marshal()))
	require.NoError(t, err)
	require.Equal(t, params.CurrentProtocolVersion, decoded.Version)
}

func TestNodeID(t *testing.T) {
	require.Equal(t, "!0a0b0c0d", NodeID(0x0a0b0c0d))
	require.Equal(t, "!00000000", NodeID(0))
}
