package geth

import (
	"fmt"
	"net"
)

// FreePort asks the OS for an unused TCP port by binding a listener on an
// ephemeral port and immediately releasing it.
//
// The port is only guaranteed free at the moment of the call; another process
// may claim it before the caller binds it. That window is accepted for a
// single local supervisor and is not guarded against.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("allocate free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
