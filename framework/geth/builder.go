package geth

import (
	"context"

	"go.uber.org/zap"
)

// NodeBuilder constructs a supervised Node. Build performs the full
// construction-time sequence: locate the client binary, gate its version,
// and initialize the data directory.
type NodeBuilder struct {
	cfg Config
}

// NewNodeBuilder returns a builder seeded with DefaultConfig.
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{cfg: DefaultConfig()}
}

func (b *NodeBuilder) WithLogger(l *zap.Logger) *NodeBuilder {
	b.cfg.Logger = l
	return b
}

// WithBinary sets the client executable, either a bare name resolved against
// the host's program locations or an explicit path.
func (b *NodeBuilder) WithBinary(bin string) *NodeBuilder {
	b.cfg.Binary = bin
	return b
}

func (b *NodeBuilder) WithDataDir(dir string) *NodeBuilder {
	b.cfg.DataDir = dir
	return b
}

func (b *NodeBuilder) WithNetworkID(id uint64) *NodeBuilder {
	b.cfg.NetworkID = id
	return b
}

func (b *NodeBuilder) WithEtherbase(addr string) *NodeBuilder {
	b.cfg.Etherbase = addr
	return b
}

// WithStaticNodes sets the enode URLs persisted to the data directory before
// initialization.
func (b *NodeBuilder) WithStaticNodes(enodes ...string) *NodeBuilder {
	b.cfg.StaticNodes = enodes
	return b
}

// WithVersionRange overrides the accepted client version range.
func (b *NodeBuilder) WithVersionRange(r VersionRange) *NodeBuilder {
	b.cfg.MinVersion = r.Min.String()
	b.cfg.MaxVersion = r.Max.String()
	return b
}

// WithGenesis overrides the bundled genesis definition.
func (b *NodeBuilder) WithGenesis(genesis []byte) *NodeBuilder {
	b.cfg.GenesisJSON = genesis
	return b
}

// WithConfig replaces the whole config, keeping any logger already set.
func (b *NodeBuilder) WithConfig(cfg Config) *NodeBuilder {
	if cfg.Logger == nil {
		cfg.Logger = b.cfg.Logger
	}
	b.cfg = cfg
	return b
}

// Build validates the config and constructs the Node. Any failure aborts
// construction entirely; no process is launched.
func (b *NodeBuilder) Build(ctx context.Context) (*Node, error) {
	cfg := b.cfg
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newNode(ctx, cfg)
}
