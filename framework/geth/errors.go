package geth

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// BinaryNotFoundError indicates the ethereum client executable could not be
// located on the host.
type BinaryNotFoundError struct {
	Name string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("ethereum client %q not found in PATH or alongside the executable", e.Name)
}

// VersionParseError indicates the client's version output did not match the
// expected "Version: major.minor.patch" pattern.
type VersionParseError struct {
	Output string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("unable to parse client version from output: %q", e.Output)
}

// IncompatibleVersionError indicates the located client reported a version
// outside the accepted range.
type IncompatibleVersionError struct {
	Version *semver.Version
	Range   VersionRange
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("incompatible ethereum client version %s: accepted range is %s to %s",
		e.Version, e.Range.Min, e.Range.Max)
}

// NotADirectoryError indicates the configured data directory path exists but
// is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s exists and is not a directory", e.Path)
}

// GenesisInitError indicates the client's genesis initialization subcommand
// exited with an error.
type GenesisInitError struct {
	Stderr string
	Err    error
}

func (e *GenesisInitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("genesis initialization failed: %v", e.Err)
	}
	return fmt.Sprintf("genesis initialization failed: %v: %s", e.Err, e.Stderr)
}

func (e *GenesisInitError) Unwrap() error {
	return e.Err
}

// StartupTimeoutError indicates a started client did not open its RPC port
// within the readiness deadline.
type StartupTimeoutError struct {
	RPCPort int
	Timeout time.Duration
}

func (e *StartupTimeoutError) Error() string {
	return fmt.Sprintf("client did not open rpc port %d within %s", e.RPCPort, e.Timeout)
}
