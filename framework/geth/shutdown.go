package geth

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// ShutdownHandler runs registered teardown hooks exactly once, either when
// Trigger is called or when the process receives SIGINT/SIGTERM during
// Listen. Registration is an explicit step performed by the owning
// application; building or starting a Node never installs hooks on its own.
type ShutdownHandler struct {
	log  *zap.Logger
	once sync.Once

	mu    sync.Mutex
	hooks []func(context.Context)
}

func NewShutdownHandler(log *zap.Logger) *ShutdownHandler {
	return &ShutdownHandler{log: log}
}

// Register adds a teardown hook. Hooks run in reverse registration order.
func (h *ShutdownHandler) Register(hook func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// StopOnShutdown registers a best-effort stop of the node.
func (h *ShutdownHandler) StopOnShutdown(n *Node) {
	h.Register(func(ctx context.Context) {
		_ = n.Stop(ctx)
	})
}

// Listen blocks until SIGINT/SIGTERM arrives or ctx is done, then runs the
// hooks. It is safe to combine with an explicit Trigger; the hooks still run
// only once.
func (h *ShutdownHandler) Listen(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}
	h.Trigger(context.Background())
}

// Trigger runs the registered hooks once, in reverse registration order.
func (h *ShutdownHandler) Trigger(ctx context.Context) {
	h.once.Do(func() {
		h.mu.Lock()
		hooks := make([]func(context.Context), len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i](ctx)
		}
	})
}
