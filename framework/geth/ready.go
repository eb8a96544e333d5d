package geth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/shirou/gopsutil/process"
)

// readyPollInterval is how often the child's TCP listeners are inspected
// while waiting for the RPC port to come up.
const readyPollInterval = 10 * time.Millisecond

// DefaultReadyTimeout bounds the readiness poll when StartOpts.ReadyTimeout
// is zero.
const DefaultReadyTimeout = 30 * time.Second

var errRPCNotListening = errors.New("rpc port not yet listening")

// waitForRPCPort blocks until port appears among the child's TCP listen
// addresses, the child exits, or the deadline passes. It returns the time
// spent waiting.
func waitForRPCPort(ctx context.Context, pid int32, port uint32, timeout time.Duration, exited <-chan error) (time.Duration, error) {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := retry.Do(
		func() error {
			select {
			case exitErr := <-exited:
				return retry.Unrecoverable(fmt.Errorf("client exited before opening rpc port %d: %w", port, exitErr))
			default:
			}

			proc, err := process.NewProcess(pid)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("client process %d disappeared: %w", pid, err))
			}
			conns, err := proc.Connections()
			if err != nil {
				return fmt.Errorf("list client connections: %w", err)
			}
			for _, c := range conns {
				if c.Laddr.Port == port && c.Status == "LISTEN" {
					return nil
				}
			}
			return errRPCNotListening
		},
		retry.Context(waitCtx),
		retry.Attempts(0),
		retry.Delay(readyPollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)

	elapsed := time.Since(start)
	if err != nil {
		if waitCtx.Err() != nil && ctx.Err() == nil {
			return elapsed, &StartupTimeoutError{RPCPort: int(port), Timeout: timeout}
		}
		return elapsed, err
	}
	return elapsed, nil
}
