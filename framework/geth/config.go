package geth

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// DefaultNetworkID is the network identity of the supervised private chain.
const DefaultNetworkID = 9

// Config holds supervisor-level configuration for a Node.
type Config struct {
	Logger *zap.Logger `toml:"-"`

	// Binary is the client executable: a bare name resolved via LocateBinary
	// or an explicit path.
	Binary string `toml:"binary"`
	// DataDir is the client data directory, created if absent.
	DataDir string `toml:"data_dir"`
	// NetworkID identifies the private network.
	NetworkID uint64 `toml:"network_id"`
	// Verbosity is the client log verbosity level.
	Verbosity int `toml:"verbosity"`
	// Etherbase is the mining beneficiary address, required when a node is
	// started with mining enabled.
	Etherbase string `toml:"etherbase"`

	// MinVersion and MaxVersion bound the accepted client versions, both
	// inclusive.
	MinVersion string `toml:"min_version"`
	MaxVersion string `toml:"max_version"`

	// StaticNodes are enode URLs persisted to static-nodes.json in the data
	// directory before initialization. Written only if non-empty.
	StaticNodes []string `toml:"static_nodes"`

	// GenesisJSON overrides the bundled genesis definition.
	GenesisJSON []byte `toml:"-"`
}

// DefaultConfig returns a Config with the supervisor defaults. DataDir is
// left empty and must be set by the caller.
func DefaultConfig() Config {
	r := DefaultVersionRange()
	return Config{
		Binary:     "geth",
		NetworkID:  DefaultNetworkID,
		Verbosity:  3,
		MinVersion: r.Min.String(),
		MaxVersion: r.Max.String(),
	}
}

// Validate checks the config for common errors.
func (c Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("binary name must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.NetworkID == 0 {
		return fmt.Errorf("network id must not be zero")
	}
	if c.Etherbase != "" && !common.IsHexAddress(c.Etherbase) {
		return fmt.Errorf("invalid etherbase address %q", c.Etherbase)
	}
	if _, err := c.versionRange(); err != nil {
		return err
	}
	return nil
}

func (c Config) versionRange() (VersionRange, error) {
	min, err := semver.NewVersion(c.MinVersion)
	if err != nil {
		return VersionRange{}, fmt.Errorf("invalid min version %q: %w", c.MinVersion, err)
	}
	max, err := semver.NewVersion(c.MaxVersion)
	if err != nil {
		return VersionRange{}, fmt.Errorf("invalid max version %q: %w", c.MaxVersion, err)
	}
	if max.LessThan(min) {
		return VersionRange{}, fmt.Errorf("version range [%s, %s] is empty", min, max)
	}
	return VersionRange{Min: min, Max: max}, nil
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
