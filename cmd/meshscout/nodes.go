package main

import (
	"fmt"
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"meshscout/nodedb"
	"meshscout/serialize/mesh"
	"meshscout/transport"
)

var flagCached bool

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List known nodes from the device node table",
	Long: `Nodes connects to the device, lists its node table sorted by last
heard, and refreshes the local cache. With --cached the cache is read
instead and no device is needed.`,
	Run: runNodes,
}

func init() {
	nodesCmd.Flags().BoolVar(&flagCached, "cached", false,
		"read the local cache instead of connecting")
}

func nodedbPath(conf *config) string {
	return filepath.Join(conf.DataDir, "nodedb")
}

func runNodes(cmd *cobra.Command, args []string) {
	if flagCached {
		runNodesCached(cmd)
		return
	}

	conf, err := resolveConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	conn, err := transport.Dial(conf.Address, transport.InterfaceType(conf.InterfaceType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		return
	}
	defer conn.Close()

	nodes := conn.Nodes()
	renderNodes(os.Stdout, nodes, conn.LocalAddr())
	refreshCache(conf, nodes, conn.LocalAddr())
}

func runNodesCached(cmd *cobra.Command) {
	// no address needed to read the cache, so skip the usual
	// config validation
	conf, err := loadConfig(flagConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	db, err := nodedb.Open(nodedbPath(conf))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open node cache failed: %v\n", err)
		return
	}
	defer db.Close()

	nodes, err := db.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read node cache failed: %v\n", err)
		return
	}
	localNum, err := db.LocalAddr()
	if err != nil {
		localNum = 0
	}
	renderNodes(os.Stdout, nodes, localNum)
}

// refreshCache stores the freshly fetched table; cache trouble is
// logged, never fatal
func refreshCache(conf *config, nodes []*mesh.NodeInfo, localNum uint32) {
	db, err := nodedb.Open(nodedbPath(conf))
	if err != nil {
		zlog.Warn().Str("module", "cli").Err(err).Msg("open node cache failed")
		return
	}
	defer db.Close()

	if err := db.Put(nodes, localNum); err != nil {
		zlog.Warn().Str("module", "cli").Err(err).Msg("refresh node cache failed")
	}
}
