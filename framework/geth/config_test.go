package geth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "empty data dir must be rejected")

	cfg.DataDir = t.TempDir()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Etherbase = "not-an-address"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MinVersion = "one.two.three"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MinVersion = "2.0.0"
	bad.MaxVersion = "1.0.0"
	require.Error(t, bad.Validate(), "empty version range must be rejected")

	bad = cfg
	bad.NetworkID = 0
	require.Error(t, bad.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gethsup.toml")
	content := `binary = "geth-custom"
data_dir = "/tmp/gethsup-test"
network_id = 42
etherbase = "0xd143C405751162d0F96bEE2eB5eb9C61882a736E"
min_version = "1.5.0"
max_version = "1.5.999"
static_nodes = ["enode://aa@127.0.0.1:30301"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "geth-custom", cfg.Binary)
	require.Equal(t, "/tmp/gethsup-test", cfg.DataDir)
	require.EqualValues(t, 42, cfg.NetworkID)
	require.Equal(t, []string{"enode://aa@127.0.0.1:30301"}, cfg.StaticNodes)
	require.Equal(t, 3, cfg.Verbosity, "unset fields keep their defaults")
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
