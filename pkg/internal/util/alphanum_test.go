package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphanumCompare(t *testing.T) {
	names := []string{
		"player-10", "player-2", "gauntlet", "player-2b",
		"v1.10.0", "v1.9.0", "player-2a",
	}
	sort.Slice(names, func(i, j int) bool {
		return AlphanumCompare(names[i], names[j])
	})

	assert.Equal(t, []string{
		"gauntlet", "player-2", "player-2a", "player-2b",
		"player-10", "v1.9.0", "v1.10.0",
	}, names)
}

func TestAlphanumCompareEqual(t *testing.T) {
	assert.False(t, AlphanumCompare("same-1", "same-1"))
}

func TestAlphanumComparePrefix(t *testing.T) {
	assert.True(t, AlphanumCompare("build", "build-7"))
	assert.False(t, AlphanumCompare("build-7", "build"))
}
