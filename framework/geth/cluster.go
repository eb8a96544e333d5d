package geth

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cluster is a logical grouping of supervised nodes that are started and
// stopped together, typically a bootnode plus peers wired via static nodes.
type Cluster struct {
	log *zap.Logger

	mu    sync.Mutex
	nodes []*Node
}

func NewCluster(log *zap.Logger) *Cluster {
	return &Cluster{log: log}
}

// Add appends nodes to the cluster without starting them.
func (c *Cluster) Add(nodes ...*Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, nodes...)
}

// Nodes returns the nodes in registration order.
func (c *Cluster) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Start starts all nodes with the same options. An explicit peer port only
// makes sense for a single node, so it is rejected for larger clusters.
func (c *Cluster) Start(ctx context.Context, opts StartOpts) error {
	nodes := c.Nodes()
	if opts.Port != 0 && len(nodes) > 1 {
		return fmt.Errorf("explicit peer port with %d nodes would collide", len(nodes))
	}

	var eg errgroup.Group
	for _, n := range nodes {
		eg.Go(func() error {
			return n.Start(ctx, opts)
		})
	}
	return eg.Wait()
}

// Stop stops all nodes.
func (c *Cluster) Stop(ctx context.Context) error {
	var eg errgroup.Group
	for _, n := range c.Nodes() {
		eg.Go(func() error {
			return n.Stop(ctx)
		})
	}
	return eg.Wait()
}
