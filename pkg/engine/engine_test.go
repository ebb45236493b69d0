package engine

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// stubEngine writes a shell script that plays the part of a player
// process and returns a Config pointing at it. The body runs inside a
// read loop with the current command line in $line.
func stubEngine(t *testing.T, body string) Config {
	t.Helper()

	script := "#!/bin/sh\nwhile read -r line; do\ncase \"$line\" in\n" + body + "\nesac\ndone\n"
	path := filepath.Join(t.TempDir(), "stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	return Config{
		Name:             "stub",
		Cmd:              path,
		MoveTime:         50 * time.Millisecond,
		HandshakeTimeout: 2 * time.Second,
		MoveTimeout:      2 * time.Second,
	}
}

const compliantStub = `
	uci) echo "id name stub"; echo "uciok" ;;
	isready) echo "readyok" ;;
	go*) echo "info depth 1 score cp 13"; echo "bestmove e2e4 ponder e7e5" ;;
	quit) exit 0 ;;
`

func assertDead(t *testing.T, eng *Engine) {
	t.Helper()
	require.NotNil(t, eng.Process)
	assert.Error(t, eng.Process.Signal(syscall.Signal(0)), "process should be dead")
}

func TestHandshakeAndMoveRoundTrip(t *testing.T) {
	eng, err := Start(stubEngine(t, compliantStub))
	require.NoError(t, err)
	defer eng.Terminate()

	require.NoError(t, eng.Handshake())

	move, err := eng.RequestMove(testFEN)
	require.NoError(t, err)
	assert.Equal(t, "e2e4", move)

	// The handle stays usable for the next ply.
	move, err = eng.RequestMove(testFEN)
	require.NoError(t, err)
	assert.Equal(t, "e2e4", move)
}

func TestHandshakeTimeoutKillsProcess(t *testing.T) {
	config := stubEngine(t, `*) ;;`)
	config.HandshakeTimeout = 200 * time.Millisecond

	eng, err := Start(config)
	require.NoError(t, err)
	defer eng.Terminate()

	err = eng.Handshake()
	assert.ErrorIs(t, err, ErrHandshakeTimeout)
	assert.False(t, eng.Alive())
	assertDead(t, eng)
}

func TestMoveTimeoutKillsProcess(t *testing.T) {
	config := stubEngine(t, `
	isready) echo "readyok" ;;
	go*) ;;
`)
	config.MoveTimeout = 200 * time.Millisecond

	eng, err := Start(config)
	require.NoError(t, err)
	defer eng.Terminate()

	require.NoError(t, eng.Handshake())

	_, err = eng.RequestMove(testFEN)
	assert.ErrorIs(t, err, ErrMoveTimeout)
	assertDead(t, eng)
}

func TestNoMoveSentinel(t *testing.T) {
	eng, err := Start(stubEngine(t, `
	isready) echo "readyok" ;;
	go*) echo "bestmove (none)" ;;
`))
	require.NoError(t, err)
	defer eng.Terminate()

	require.NoError(t, eng.Handshake())

	_, err = eng.RequestMove(testFEN)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestConcurrentMoveRequestRejected(t *testing.T) {
	eng, err := Start(stubEngine(t, `
	isready) echo "readyok" ;;
	go*) sleep 1; echo "bestmove e2e4" ;;
`))
	require.NoError(t, err)
	defer eng.Terminate()

	require.NoError(t, eng.Handshake())

	first := make(chan error, 1)
	go func() {
		_, err := eng.RequestMove(testFEN)
		first <- err
	}()

	time.Sleep(150 * time.Millisecond)
	_, err = eng.RequestMove(testFEN)
	assert.ErrorIs(t, err, ErrRequestInFlight)

	assert.NoError(t, <-first)
}

func TestEngineExitMidRequest(t *testing.T) {
	eng, err := Start(stubEngine(t, `
	isready) echo "readyok" ;;
	go*) exit 7 ;;
`))
	require.NoError(t, err)
	defer eng.Terminate()

	require.NoError(t, eng.Handshake())

	_, err = eng.RequestMove(testFEN)
	assert.ErrorIs(t, err, ErrProcessExited)
	assert.False(t, eng.Alive())
}

func TestTerminateIsIdempotent(t *testing.T) {
	eng, err := Start(stubEngine(t, compliantStub))
	require.NoError(t, err)
	require.NoError(t, eng.Handshake())

	eng.Terminate()
	eng.Terminate()

	assert.False(t, eng.Alive())
	assertDead(t, eng)
}

func TestTerminateBeforeHandshake(t *testing.T) {
	eng, err := Start(stubEngine(t, compliantStub))
	require.NoError(t, err)

	eng.Terminate()
	assertDead(t, eng)
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(Config{Name: "ghost", Cmd: filepath.Join(t.TempDir(), "ghost")})

	var spawnErr *SpawnError
	assert.ErrorAs(t, err, &spawnErr)
}
