package discover

// FindCandidates resolves a truncated relay identifier to the peers
// that could have been the last-hop relay. The relay field in a reply
// carries only the low 8 bits of the relaying node's address, so this
// is a heuristic: every directly reachable peer whose address low byte
// matches is a candidate, in snapshot order. More than one match is
// legitimate and is surfaced as-is; callers present the result as
// candidates, never as a confirmed identity.
func FindCandidates(relayByte uint8, snap *Snapshot) []*PeerSummary {
	var candidates []*PeerSummary
	for _, p := range snap.All() {
		if p.Hops != 0 {
			continue
		}
		if uint8(p.Num&0xFF) != relayByte {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}
