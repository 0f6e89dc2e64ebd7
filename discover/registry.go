// Package discover implements nearby peer discovery: it emits a
// zero-hop route probe through a connected mesh device and correlates
// the replies that arrive during a timed window with the device's
// node table.
package discover

import (
	"fmt"

	"meshscout/serialize/mesh"
)

// PeerSummary is one known-peer entry from the registry snapshot
type PeerSummary struct {
	ID       string
	Short    string
	Long     string
	Num      uint32
	Hops     uint8 // mesh.HopsUnknown when the device doesn't know
	LastSeen int64
	Snr      *float64
}

func (p *PeerSummary) String() string {
	return fmt.Sprintf("ID %s Num %08x Hops %d", p.ID, p.Num, p.Hops)
}

// DisplayName renders the friendliest identity available
func (p *PeerSummary) DisplayName() string {
	switch {
	case len(p.Short) != 0 && len(p.Long) != 0:
		return fmt.Sprintf("[%s] %s", p.Short, p.Long)
	case len(p.Long) != 0:
		return p.Long
	case len(p.Short) != 0:
		return p.Short
	default:
		return p.ID
	}
}

// Snapshot is a one-shot view of the known peers, fixed for the
// duration of a discovery session. Iteration order is insertion order.
type Snapshot struct {
	byID  map[string]*PeerSummary
	order []*PeerSummary
}

// BuildSnapshot converts the device node table into a registry
// snapshot. The local node's own entry is always excluded, and peers
// without a textual id get the canonical !-hex form. A nil or empty
// table yields an empty snapshot, not an error: discovery proceeds
// uncorrelated.
func BuildSnapshot(nodes []*mesh.NodeInfo, localNum uint32) *Snapshot {
	s := &Snapshot{
		byID: make(map[string]*PeerSummary),
	}

	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsLocal || n.Num == localNum {
			continue
		}

		id := n.ID
		if len(id) == 0 {
			id = mesh.NodeID(n.Num)
		}
		if _, ok := s.byID[id]; ok {
			continue
		}

		peer := &PeerSummary{
			ID:       id,
			Short:    n.Short,
			Long:     n.Long,
			Num:      n.Num,
			Hops:     n.Hops,
			LastSeen: n.LastSeen,
			Snr:      n.Snr,
		}
		s.byID[id] = peer
		s.order = append(s.order, peer)
	}
	return s
}

// Lookup finds a peer by its canonical identifier
func (s *Snapshot) Lookup(id string) (*PeerSummary, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// All returns the peers in insertion order
func (s *Snapshot) All() []*PeerSummary {
	return s.order
}

func (s *Snapshot) Len() int {
	return len(s.order)
}
