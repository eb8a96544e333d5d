package geth

import (
	"context"
	"errors"
	"net"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForRPCPortReady(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("connection inspection not exercised on windows")
	}

	// The test process itself plays the child: its own listener must be
	// visible in its TCP laddr set.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := uint32(l.Addr().(*net.TCPAddr).Port)

	elapsed, err := waitForRPCPort(context.Background(), int32(os.Getpid()), port, 5*time.Second, make(chan error))
	require.NoError(t, err)
	require.Less(t, elapsed, 5*time.Second)
}

func TestWaitForRPCPortTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("connection inspection not exercised on windows")
	}

	port, err := FreePort()
	require.NoError(t, err)

	_, err = waitForRPCPort(context.Background(), int32(os.Getpid()), uint32(port), 200*time.Millisecond, make(chan error))
	var timeout *StartupTimeoutError
	require.ErrorAs(t, err, &timeout)
	require.Equal(t, port, timeout.RPCPort)
}

func TestWaitForRPCPortChildExited(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("connection inspection not exercised on windows")
	}

	exited := make(chan error, 1)
	exited <- errors.New("exit status 1")

	port, err := FreePort()
	require.NoError(t, err)

	_, err = waitForRPCPort(context.Background(), int32(os.Getpid()), uint32(port), time.Second, exited)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exited before opening rpc port")
}
