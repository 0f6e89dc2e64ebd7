package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshscout/serialize/mesh"
)

func snapshotFor(t *testing.T, nodes ...*mesh.NodeInfo) *Snapshot {
	t.Helper()
	return BuildSnapshot(nodes, 0xFFFFFFFE)
}

func zeroHopNode(num uint32) *mesh.NodeInfo {
	n := mesh.NewNodeInfo(num)
	n.Hops = 0
	return n
}

func TestFindCandidatesMatchesLowByte(t *testing.T) {
	snap := snapshotFor(t,
		zeroHopNode(0x0a0b0c0d),
		zeroHopNode(0x0000000e),
	)

	candidates := FindCandidates(0x0d, snap)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint32(0x0a0b0c0d), candidates[0].Num)
}

func TestFindCandidatesOnlyZeroHopPeers(t *testing.T) {
	oneHop := mesh.NewNodeInfo(0x1111110d)
	oneHop.Hops = 1
	unknownHops := mesh.NewNodeInfo(0x2222220d) // stays HopsUnknown

	snap := snapshotFor(t, oneHop, unknownHops, zeroHopNode(0x3333330d))

	candidates := FindCandidates(0x0d, snap)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint32(0x3333330d), candidates[0].Num)
}

func TestFindCandidatesSurfacesAmbiguity(t *testing.T) {
	// two directly reachable peers share a low byte; both must be
	// returned, in snapshot order, with no tie-break
	snap := snapshotFor(t,
		zeroHopNode(0x1111110d),
		zeroHopNode(0x2222220d),
		zeroHopNode(0x333333aa),
	)

	candidates := FindCandidates(0x0d, snap)
	require.Len(t, candidates, 2)
	assert.Equal(t, uint32(0x1111110d), candidates[0].Num)
	assert.Equal(t, uint32(0x2222220d), candidates[1].Num)
}

func TestFindCandidatesNoMatch(t *testing.T) {
	snap := snapshotFor(t, zeroHopNode(0x0a0b0c0d))
	assert.Empty(t, FindCandidates(0x42, snap))
	assert.Empty(t, FindCandidates(0x42, snapshotFor(t)))
}
