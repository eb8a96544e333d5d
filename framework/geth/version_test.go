package geth

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
)

func TestVersionRangeContains(t *testing.T) {
	r := DefaultVersionRange()

	tests := []struct {
		version  string
		accepted bool
	}{
		{"1.4.4", false},
		{"1.4.5", true}, // min bound inclusive
		{"1.4.19", true},
		{"1.5.0", true},
		{"1.5.999", true}, // max bound inclusive
		{"1.6.0", false},
		{"2.0.0", false},
		{"0.9.41", false},
	}

	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			v := semver.MustParse(tc.version)
			require.Equal(t, tc.accepted, r.Contains(v))
		})
	}
}

func TestVersionPattern(t *testing.T) {
	out := "Geth\nVersion: 1.5.0-stable\nProtocol Versions: [63 62]\nNetwork Id: 1\n"
	m := versionPattern.FindSubmatch([]byte(out))
	require.NotNil(t, m)
	require.Equal(t, "1.5.0", string(m[1]))

	require.Nil(t, versionPattern.FindSubmatch([]byte("no version here")))
}

func TestVersionRangeString(t *testing.T) {
	require.Equal(t, "[1.4.5, 1.5.999]", DefaultVersionRange().String())
}
