package discover

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshscout/serialize/mesh"
)

func newReply(from uint32) *mesh.RouteReply {
	r := mesh.NewRouteReply(from)
	r.FromID = mesh.NodeID(from)
	return r
}

func TestCorrelatorGate(t *testing.T) {
	corr := newCorrelator(BuildSnapshot(nil, 1))

	// never armed: feeding messages must not change the result set
	corr.onMessage(newReply(0x0a0b0c0d))
	assert.Empty(t, corr.results())

	corr.arm()
	corr.onMessage(newReply(0x0a0b0c0d))
	require.Len(t, corr.results(), 1)

	corr.disarm()
	corr.onMessage(newReply(0x0a0b0c0e))
	assert.Len(t, corr.results(), 1)
}

func TestCorrelatorArmClearsRecords(t *testing.T) {
	corr := newCorrelator(BuildSnapshot(nil, 1))
	corr.arm()
	corr.onMessage(newReply(1))
	require.Len(t, corr.results(), 1)

	corr.arm()
	assert.Empty(t, corr.results())
}

func TestCorrelatorIgnoresOtherProtocols(t *testing.T) {
	corr := newCorrelator(BuildSnapshot(nil, 1))
	corr.arm()

	corr.onMessage(mesh.NewGetNodes())
	corr.onMessage(mesh.NewNodeInfo(0x0a0b0c0d))
	corr.onMessage(mesh.NewNodesEnd(1))
	assert.Empty(t, corr.results())

	corr.onMessage(newReply(0x0a0b0c0d))
	assert.Len(t, corr.results(), 1)
}

func TestCorrelatorArrivalOrder(t *testing.T) {
	corr := newCorrelator(BuildSnapshot(nil, 1))
	corr.arm()

	for i := uint32(1); i <= 5; i++ {
		corr.onMessage(newReply(i))
		corr.onMessage(mesh.NewNodeInfo(i)) // interleaved noise
	}

	records := corr.results()
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("!%08x", i+1), rec.SenderID)
	}
}

func TestCorrelatorSenderIdentitySynthesis(t *testing.T) {
	corr := newCorrelator(BuildSnapshot(nil, 1))
	corr.arm()

	// no textual id, no address: identity falls back to zero
	corr.onMessage(mesh.NewRouteReply(0))

	records := corr.results()
	require.Len(t, records, 1)
	assert.Equal(t, "!00000000", records[0].SenderID)
	assert.Equal(t, "!00000000", records[0].Display)
	assert.Nil(t, records[0].Snr)
	assert.Nil(t, records[0].Rssi)
	assert.Nil(t, records[0].Relay)
	assert.Nil(t, records[0].SnrTowardsDb)
}

func TestCorrelatorSnrTowards(t *testing.T) {
	cases := []struct {
		name    string
		samples []int32
		expect  *float64
	}{
		{"absent", nil, nil},
		// a single element is the originating hop's placeholder and
		// yields no derived value
		{"placeholder only", []int32{0}, nil},
		{"two samples", []int32{0, 48}, floatPtr(12.0)},
		{"longer path", []int32{0, -14, 30}, floatPtr(7.5)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			corr := newCorrelator(BuildSnapshot(nil, 1))
			corr.arm()

			reply := newReply(0x0a0b0c0d)
			reply.SnrTowards = c.samples
			corr.onMessage(reply)

			records := corr.results()
			require.Len(t, records, 1)
			if c.expect == nil {
				assert.Nil(t, records[0].SnrTowardsDb)
			} else {
				require.NotNil(t, records[0].SnrTowardsDb)
				assert.Equal(t, *c.expect, *records[0].SnrTowardsDb)
			}
		})
	}
}

func TestCorrelatorDisplayIdentity(t *testing.T) {
	named := mesh.NewNodeInfo(0x0a0b0c0d)
	named.ID = "!0a0b0c0d"
	named.Short = "AB"
	named.Long = "Alpha Base"
	nameless := mesh.NewNodeInfo(0x0a0b0c0e)
	nameless.ID = "!0a0b0c0e"

	corr := newCorrelator(BuildSnapshot([]*mesh.NodeInfo{named, nameless}, 1))
	corr.arm()

	corr.onMessage(newReply(0x0a0b0c0d)) // in registry, both names
	corr.onMessage(newReply(0x0a0b0c0e)) // in registry, no names
	corr.onMessage(newReply(0x99999999)) // unknown peer

	records := corr.results()
	require.Len(t, records, 3)
	assert.Equal(t, "[AB] Alpha Base", records[0].Display)
	assert.Equal(t, "!0a0b0c0e", records[1].Display)
	assert.Equal(t, "!99999999", records[2].Display)
}

func TestCorrelatorAnnotatesRelayCandidates(t *testing.T) {
	relayPeer := mesh.NewNodeInfo(0x1111110d)
	relayPeer.Hops = 0
	otherPeer := mesh.NewNodeInfo(0x2222220d)
	otherPeer.Hops = 0

	corr := newCorrelator(BuildSnapshot([]*mesh.NodeInfo{relayPeer, otherPeer}, 1))
	corr.arm()

	relay := uint8(0x0d)
	reply := newReply(0x0a0b0c0d)
	reply.Relay = &relay
	corr.onMessage(reply)

	noRelay := newReply(0x0a0b0c0e)
	corr.onMessage(noRelay)

	records := corr.results()
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Relay)
	assert.Len(t, records[0].RelayCandidates, 2)
	assert.Nil(t, records[1].Relay)
	assert.Nil(t, records[1].RelayCandidates)
}

func floatPtr(v float64) *float64 {
	return &v
}
