package discover

import (
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"meshscout/serialize/mesh"
)

// Record is one correlated discovery response, never mutated after
// creation. Records accumulate strictly in arrival order.
type Record struct {
	SenderID     string   `json:"sender_id"`
	Num          uint32   `json:"num"`
	Display      string   `json:"display"`
	Snr          *float64 `json:"snr,omitempty"`
	Rssi         *int     `json:"rssi,omitempty"`
	SnrTowardsDb *float64 `json:"snr_towards_db,omitempty"`
	Relay        *uint8   `json:"relay,omitempty"`
	// RelayCandidates annotates Relay with the registry peers that
	// could have been the last hop; heuristic, not an identity proof
	RelayCandidates []*PeerSummary `json:"relay_candidates,omitempty"`
	ReceivedAt      time.Time      `json:"received_at"`
}

// correlator is the inbound message handler armed while a discovery
// window is open. The mutex covers records and the active flag: the
// transport delivers on its own goroutine while the session waits on
// another.
type correlator struct {
	snap *Snapshot

	mu      sync.Mutex
	active  bool
	records []*Record
}

func newCorrelator(snap *Snapshot) *correlator {
	return &correlator{snap: snap}
}

// arm opens the window and clears any previous result set
func (c *correlator) arm() {
	c.mu.Lock()
	c.active = true
	c.records = nil
	c.mu.Unlock()
}

// disarm closes the window; late messages queued before handler
// deregistration completes are dropped by the gate
func (c *correlator) disarm() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

func (c *correlator) results() []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// onMessage correlates one inbound message. Partially populated
// replies are expected across firmware versions: missing fields
// default rather than fail.
func (c *correlator) onMessage(msg mesh.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}

	reply, ok := msg.(*mesh.RouteReply)
	if !ok {
		// other traffic during the window must not pollute results
		return
	}

	senderID := reply.FromID
	if len(senderID) == 0 {
		senderID = mesh.NodeID(reply.From)
	}

	record := &Record{
		SenderID:   senderID,
		Num:        reply.From,
		Display:    senderID,
		Snr:        reply.RxSnr,
		Rssi:       reply.RxRssi,
		Relay:      reply.Relay,
		ReceivedAt: time.Now(),
	}

	// the first path sample is a zero placeholder from the
	// originating hop, so a single-element series carries no signal
	if len(reply.SnrTowards) > 1 {
		towards := float64(reply.SnrTowards[len(reply.SnrTowards)-1]) / 4.0
		record.SnrTowardsDb = &towards
	}

	if peer, ok := c.snap.Lookup(senderID); ok {
		record.Display = peer.DisplayName()
	}

	if reply.Relay != nil {
		record.RelayCandidates = FindCandidates(*reply.Relay, c.snap)
	}

	c.records = append(c.records, record)

	event := zlog.Info().Str("module", "discover").Str("sender", senderID)
	if record.Snr != nil {
		event = event.Float64("snr", *record.Snr)
	}
	if record.Rssi != nil {
		event = event.Int("rssi", *record.Rssi)
	}
	event.Msg("nearby node discovered")
	zlog.Debug().Str("module", "discover").Str("reply", reply.String()).Msg("raw reply")
}
