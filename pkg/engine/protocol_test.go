package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBestMove(t *testing.T) {
	tests := []struct {
		line string
		move string
		ok   bool
	}{
		{"bestmove e2e4", "e2e4", true},
		{"bestmove e2e4 ponder e7e5", "e2e4", true},
		{"  bestmove   g1f3  ", "g1f3", true},
		{"info depth 20 bestmove d2d4", "d2d4", true},
		{"bestmove (none)", "(none)", true},
		{"bestmove", "", false},
		{"info depth 20 score cp 31", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		move, ok := ParseBestMove(test.line)
		assert.Equal(t, test.ok, ok, "line %q", test.line)
		assert.Equal(t, test.move, move, "line %q", test.line)
	}
}

func TestPositionCommand(t *testing.T) {
	assert.Equal(t,
		"position fen "+testFEN,
		PositionCommand(testFEN),
	)
}

func TestGoCommand(t *testing.T) {
	assert.Equal(t, "go movetime 1000", GoCommand(time.Second))
	assert.Equal(t, "go movetime 50", GoCommand(50*time.Millisecond))
}

func TestSandboxWrapper(t *testing.T) {
	wrapper := Wrapper{Path: "bwrap", Args: []string{"--unshare-net", "--die-with-parent"}}

	name, args := wrapper.Wrap("/tmp/player", []string{"--depth", "3"})
	assert.Equal(t, "bwrap", name)
	assert.Equal(t, []string{"--unshare-net", "--die-with-parent", "/tmp/player", "--depth", "3"}, args)
}
