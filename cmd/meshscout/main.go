package main

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"meshscout/params"
)

var (
	flagConfigFile    string
	flagAddress       string
	flagInterfaceType string
	flagDuration      int
	flagDebug         bool
)

var rootCmd = &cobra.Command{
	Use:   "meshscout",
	Short: "Explore a packet-radio mesh through a locally attached device",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if flagDebug {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "",
		"config file (default: ~/.meshscout/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagAddress, "address", "",
		"device address: serial port, IP/hostname, or BLE MAC/name")
	rootCmd.PersistentFlags().StringVar(&flagInterfaceType, "interface-type", "auto",
		"interface type: serial, tcp, ble, or auto")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"verbose per-packet diagnostic output")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(params.Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
