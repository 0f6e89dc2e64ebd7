package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meshscout/discover"
	"meshscout/params"
	"meshscout/transport"
)

var flagJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover nearby mesh nodes using a zero-hop route probe",
	Long: `Discover sends a route probe with hop limit 0 to the broadcast
address, so only nodes in direct radio range reply, then listens for
the configured duration and correlates replies with the device's node
table.

A completed session always exits 0, including when nothing answered or
the device connection failed; problems are reported as text.`,
	Run: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&flagDuration, "duration", params.DefaultListenSeconds,
		"how long to listen for responses (seconds)")
	discoverCmd.Flags().BoolVar(&flagJSON, "json", false,
		"emit the result set as JSON")
}

func runDiscover(cmd *cobra.Command, args []string) {
	conf, err := resolveConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Discovering nearby nodes via %s (0-hop probe to broadcast)\n", conf.Address)
	fmt.Printf("Listening for responses for %d seconds...\n", conf.Duration)

	session := discover.NewSession(conf.Address, transport.InterfaceType(conf.InterfaceType))
	records, err := session.Run(ctx, time.Duration(conf.Duration)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		return
	}

	if flagJSON {
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode results failed: %v\n", err)
			return
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("\nDiscovery complete! Found %d nearby nodes\n", len(records))
	if len(records) == 0 {
		fmt.Println("No nearby nodes detected or they didn't respond.")
		return
	}
	renderRecords(os.Stdout, records)
}
