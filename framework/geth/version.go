package geth

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// versionPattern matches the version triple in the client's `version` output,
// e.g. "Version: 1.5.0-stable".
var versionPattern = regexp.MustCompile(`Version: (\d+\.\d+\.\d+)`)

// VersionRange is a closed interval of accepted client versions. Both bounds
// are inclusive.
type VersionRange struct {
	Min *semver.Version
	Max *semver.Version
}

// DefaultVersionRange returns the range of client versions the supervisor is
// known to work with.
func DefaultVersionRange() VersionRange {
	return VersionRange{
		Min: semver.MustParse("1.4.5"),
		Max: semver.MustParse("1.5.999"),
	}
}

// Contains reports whether v falls within the range.
func (r VersionRange) Contains(v *semver.Version) bool {
	return !v.LessThan(r.Min) && !v.GreaterThan(r.Max)
}

func (r VersionRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

// readVersion invokes the client binary with its version query and extracts
// the reported version triple.
func readVersion(ctx context.Context, bin string) (*semver.Version, error) {
	out, err := exec.CommandContext(ctx, bin, "version").Output()
	if err != nil {
		return nil, fmt.Errorf("query client version: %w", err)
	}

	m := versionPattern.FindSubmatch(out)
	if m == nil {
		return nil, &VersionParseError{Output: firstLine(string(out))}
	}

	v, err := semver.NewVersion(string(m[1]))
	if err != nil {
		return nil, &VersionParseError{Output: string(m[1])}
	}
	return v, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
