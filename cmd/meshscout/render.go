package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"meshscout/discover"
	"meshscout/serialize/mesh"
	"meshscout/utils"
)

func renderRecords(w io.Writer, records []*discover.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tSNR(dB)\tRSSI(dBm)\tTOWARDS(dB)\tRELAY\tCANDIDATES")

	for i, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			rec.SenderID,
			rec.Display,
			fmtFloat(rec.Snr),
			fmtInt(rec.Rssi),
			fmtFloat(rec.SnrTowardsDb),
			fmtRelay(rec.Relay),
			fmtCandidates(rec.RelayCandidates),
		)
	}
	tw.Flush()
}

// renderNodes lists the table most recently heard first
func renderNodes(w io.Writer, nodes []*mesh.NodeInfo, localNum uint32) {
	sorted := make([]*mesh.NodeInfo, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastSeen > sorted[j].LastSeen
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tHOPS\tSNR(dB)\tLAST HEARD")

	i := 0
	for _, n := range sorted {
		if n.IsLocal || n.Num == localNum {
			continue
		}
		i++

		id := n.ID
		if len(id) == 0 {
			id = mesh.NodeID(n.Num)
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i,
			id,
			fmtName(n.Short, n.Long, id),
			fmtHops(n.Hops),
			fmtFloat(n.Snr),
			utils.UnixToString(n.LastSeen),
		)
	}
	tw.Flush()

	if i == 0 {
		fmt.Fprintln(w, "No other nodes in the table.")
	}
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// fmtName mirrors PeerSummary.DisplayName so both tables render
// identities the same way
func fmtName(short, long, id string) string {
	switch {
	case len(short) != 0 && len(long) != 0:
		return fmt.Sprintf("[%s] %s", short, long)
	case len(long) != 0:
		return long
	case len(short) != 0:
		return short
	default:
		return id
	}
}

func fmtHops(hops uint8) string {
	if hops == mesh.HopsUnknown {
		return "?"
	}
	return fmt.Sprintf("%d", hops)
}

func fmtRelay(relay *uint8) string {
	if relay == nil {
		return "-"
	}
	return fmt.Sprintf("0x%02x", *relay)
}

// fmtCandidates lists every peer that could have been the relay; the
// match is heuristic, so ambiguity stays visible
func fmtCandidates(candidates []*discover.PeerSummary) string {
	if len(candidates) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, c.DisplayName())
	}
	return "maybe: " + strings.Join(parts, ", ")
}
