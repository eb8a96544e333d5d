package geth

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const miningScriptFile = "mine_pending_transactions.js"

// stopKillTimeout bounds how long Stop waits for a graceful exit before the
// child is killed.
const stopKillTimeout = 10 * time.Second

// StartOpts describes a single Start invocation. It is not persisted; a new
// value is supplied per call.
type StartOpts struct {
	// RPC enables the client's RPC listener on a freshly allocated port.
	// Start blocks until the port is observably listening.
	RPC bool
	// Mining enables mining with the configured etherbase and the bundled
	// automation script.
	Mining bool
	// NodeKey fixes the client's peer identity. The corresponding public key
	// is retained and available via Enode.
	NodeKey *ecdsa.PrivateKey
	// Port is an explicit peer port. Zero means allocate one.
	Port int
	// ReadyTimeout bounds the readiness poll when RPC is enabled. Zero means
	// DefaultReadyTimeout.
	ReadyTimeout time.Duration
}

// Node supervises a single external ethereum client process. A Node is built
// once, can be started and stopped repeatedly, and exclusively owns the
// process it launches. Callers are expected to drive Start and Stop from a
// single owner.
type Node struct {
	cfg      Config
	log      *zap.Logger
	binPath  string
	versions VersionRange
	version  *semver.Version

	mu       sync.Mutex
	cmd      *exec.Cmd
	waitCh   chan error
	peerPort int
	rpcPort  int
	enodePub string
}

// newNode runs the construction-time sequence: locate, gate version,
// initialize the data directory. Any failure aborts construction; no process
// is launched.
func newNode(ctx context.Context, cfg Config) (*Node, error) {
	log := cfg.Logger.With(zap.String("component", "geth-node"))

	binPath, err := LocateBinary(cfg.Binary)
	if err != nil {
		return nil, err
	}

	versions, err := cfg.versionRange()
	if err != nil {
		return nil, err
	}

	ver, err := readVersion(ctx, binPath)
	if err != nil {
		return nil, err
	}
	if !versions.Contains(ver) {
		return nil, &IncompatibleVersionError{Version: ver, Range: versions}
	}
	log.Info("located client", zap.String("bin", binPath), zap.String("version", ver.String()))

	if err := initDataDir(ctx, log, binPath, cfg); err != nil {
		return nil, err
	}

	return &Node{
		cfg:      cfg,
		log:      log,
		binPath:  binPath,
		versions: versions,
		version:  ver,
	}, nil
}

// IsRunning reports whether the node currently owns a live client process.
func (n *Node) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cmd != nil
}

// PeerPort returns the peer listening port. It is zero until the first Start
// and keeps its last value across Stop.
func (n *Node) PeerPort() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.peerPort
}

// RPCPort returns the RPC listening port for the current run, or zero when
// the node is stopped or was started without RPC.
func (n *Node) RPCPort() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rpcPort
}

// Enode returns the hex-encoded public key of the fixed peer identity, set
// when Start was given a node key.
func (n *Node) Enode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enodePub
}

// Version returns the client version reported at construction.
func (n *Node) Version() *semver.Version {
	return n.version
}

// DataDir returns the client data directory.
func (n *Node) DataDir() string {
	return n.cfg.DataDir
}

// Start launches the client process and, when RPC is enabled, blocks until
// its RPC port is accepting connections. Starting an already running node is
// a no-op. A readiness failure terminates the child before returning so a
// failed Start leaves nothing behind.
func (n *Node) Start(ctx context.Context, opts StartOpts) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cmd != nil {
		n.log.Debug("start skipped, node already running", zap.Int("pid", n.cmd.Process.Pid))
		return nil
	}

	if opts.Mining && n.cfg.Etherbase == "" {
		return fmt.Errorf("mining requires an etherbase address")
	}

	peerPort := opts.Port
	if peerPort == 0 {
		var err error
		peerPort, err = FreePort()
		if err != nil {
			return err
		}
	}

	args := []string{
		"--datadir", n.cfg.DataDir,
		"--networkid", strconv.FormatUint(n.cfg.NetworkID, 10),
		"--port", strconv.Itoa(peerPort),
		"--nodiscover",
		"--ipcdisable",
		"--gasprice", "0",
		"--verbosity", strconv.Itoa(n.cfg.Verbosity),
	}

	rpcPort := 0
	if opts.RPC {
		var err error
		rpcPort, err = FreePort()
		if err != nil {
			return err
		}
		args = append(args, "--rpc", "--rpcport", strconv.Itoa(rpcPort))
	}

	enodePub := ""
	if opts.NodeKey != nil {
		enodePub = hex.EncodeToString(crypto.FromECDSAPub(&opts.NodeKey.PublicKey))
		args = append(args, "--nodekeyhex", hex.EncodeToString(crypto.FromECDSA(opts.NodeKey)))
	}

	if opts.Mining {
		scriptPath := filepath.Join(n.cfg.DataDir, miningScriptFile)
		if err := os.WriteFile(scriptPath, []byte(miningScriptJS), 0644); err != nil {
			return fmt.Errorf("write mining script: %w", err)
		}
		args = append(args, "--etherbase", n.cfg.Etherbase, "js", scriptPath)
	}

	// The child is detached from the parent's stdio; Go does not pass any
	// other descriptors to the child unless asked to.
	cmd := exec.Command(n.binPath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start client: %w", err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	n.cmd = cmd
	n.waitCh = waitCh
	n.peerPort = peerPort
	n.rpcPort = rpcPort
	n.enodePub = enodePub

	var waited time.Duration
	if opts.RPC {
		var err error
		waited, err = waitForRPCPort(ctx, int32(cmd.Process.Pid), uint32(rpcPort), opts.ReadyTimeout, waitCh)
		if err != nil {
			_ = cmd.Process.Kill()
			n.cmd = nil
			n.waitCh = nil
			n.rpcPort = 0
			return err
		}
	}

	n.log.Info("node started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Duration("ready_after", waited),
		zap.String("cmd", n.binPath+" "+strings.Join(args, " ")))
	return nil
}

// Stop terminates the client process gracefully and blocks until it has
// exited. Stop never fails: a process that already disappeared is logged and
// the supervisor state is cleared either way, so a subsequent Start works.
// Stopping a node that is not running is a no-op.
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	if n.cmd == nil {
		return nil
	}

	start := time.Now()
	pid := n.cmd.Process.Pid

	if err := n.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		n.log.Warn("cannot terminate client, process no longer exists",
			zap.Int("pid", pid), zap.Error(err))
	}

	select {
	case <-n.waitCh:
	case <-time.After(stopKillTimeout):
		n.log.Warn("client ignored termination request, killing", zap.Int("pid", pid))
		_ = n.cmd.Process.Kill()
		<-n.waitCh
	case <-ctx.Done():
		n.log.Warn("stop canceled, killing client", zap.Int("pid", pid))
		_ = n.cmd.Process.Kill()
		<-n.waitCh
	}

	n.cmd = nil
	n.waitCh = nil
	n.rpcPort = 0
	n.log.Info("node terminated", zap.Int("pid", pid), zap.Duration("in", time.Since(start)))
	return nil
}
