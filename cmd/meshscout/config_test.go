package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyConfig(t *testing.T) {
	valid := defaultConfig()
	valid.Address = "/dev/ttyUSB0"
	require.NoError(t, verifyConfig(valid))

	noAddress := defaultConfig()
	assert.Error(t, verifyConfig(noAddress))

	badType := defaultConfig()
	badType.Address = "x"
	badType.InterfaceType = "carrier-pigeon"
	assert.Error(t, verifyConfig(badType))

	badDuration := defaultConfig()
	badDuration.Address = "x"
	badDuration.Duration = 0
	assert.Error(t, verifyConfig(badDuration))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := []byte("address = \"192.168.1.20\"\ninterface_type = \"tcp\"\nduration = 30\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	conf, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", conf.Address)
	assert.Equal(t, "tcp", conf.InterfaceType)
	assert.Equal(t, 30, conf.Duration)
	// untouched keys keep their defaults
	assert.Equal(t, defaultDataDir(), conf.DataDir)
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("address = [not toml"), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}
