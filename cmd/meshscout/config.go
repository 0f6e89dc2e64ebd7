package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"meshscout/params"
	"meshscout/transport"
)

// config holds the effective settings for a run: defaults, then the
// optional config file, then explicit flags, in increasing precedence.
type config struct {
	Address       string `toml:"address"`
	InterfaceType string `toml:"interface_type"`
	Duration      int    `toml:"duration"`
	DataDir       string `toml:"data_dir"`
	Debug         bool   `toml:"debug"`
}

func defaultConfig() *config {
	return &config{
		InterfaceType: string(transport.Auto),
		Duration:      params.DefaultListenSeconds,
		DataDir:       defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".meshscout"
	}
	return filepath.Join(home, ".meshscout")
}

// loadConfig reads the TOML file at path, or the default location
// when path is empty and the file happens to exist there
func loadConfig(path string) (*config, error) {
	conf := defaultConfig()

	if len(path) == 0 {
		candidate := filepath.Join(defaultDataDir(), "config.toml")
		if _, err := os.Stat(candidate); err != nil {
			return conf, nil
		}
		path = candidate
	}

	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("parse config file %s failed: %w", path, err)
	}
	return conf, nil
}

// resolveConfig merges the config file with any flags the user set
// explicitly, then validates the result
func resolveConfig(cmd *cobra.Command) (*config, error) {
	conf, err := loadConfig(flagConfigFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("address") || len(conf.Address) == 0 {
		conf.Address = flagAddress
	}
	if cmd.Flags().Changed("interface-type") || len(conf.InterfaceType) == 0 {
		conf.InterfaceType = flagInterfaceType
	}
	if cmd.Flags().Changed("duration") || conf.Duration == 0 {
		conf.Duration = flagDuration
	}
	if flagDebug {
		conf.Debug = true
	}

	if err := verifyConfig(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func verifyConfig(c *config) error {
	switch transport.InterfaceType(c.InterfaceType) {
	case transport.Auto, transport.Serial, transport.TCP, transport.BLE:
	default:
		return fmt.Errorf("invalid interface type:%s", c.InterfaceType)
	}

	if len(c.Address) == 0 {
		return fmt.Errorf("no device address configured; pass --address or set it in the config file")
	}

	if c.Duration <= 0 {
		return fmt.Errorf("invalid listen duration:%d", c.Duration)
	}

	if len(c.DataDir) == 0 {
		return fmt.Errorf("empty data directory")
	}
	return nil
}
