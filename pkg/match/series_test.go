package match

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backrank/colosseum/pkg/arbiter"
)

const sicilianFEN = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"

func writeBook(t *testing.T, entries string) *Book {
	t.Helper()

	path := filepath.Join(t.TempDir(), "openings.fen")
	require.NoError(t, os.WriteFile(path, []byte(entries), 0644))

	book, err := NewBook(path, "sequential")
	require.NoError(t, err)
	return book
}

func TestRunSeriesAlternatesColorsAndTallies(t *testing.T) {
	// Every game ends on ply 1 with a win for white, so the series
	// player wins exactly the games it holds white in.
	var mu sync.Mutex
	var fens []string
	adjudicator := adjudicatorFunc(func(_ context.Context, _ []string, fen string) (arbiter.Verdict, error) {
		mu.Lock()
		fens = append(fens, fen)
		mu.Unlock()

		return arbiter.Verdict{GameOver: true, Winner: "white", Reason: "Checkmate"}, nil
	})

	book := writeBook(t, "# two openings, one per game pair\n\n"+DefaultStartFEN+"\n"+sicilianFEN+"\n")

	var results []GameResult
	config := &SeriesConfig{
		Match: Config{
			Players:  twoPlayers(scriptedPlayer(t, "e2e4"), scriptedPlayer(t, "c7c5")),
			Arbiter:  adjudicator,
			MoveTime: 10 * time.Millisecond,
		},
		Games:    4,
		Openings: book,
		OnResult: func(result GameResult) { results = append(results, result) },
	}

	tally, err := RunSeries(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, Tally{Wins: 2, Losses: 2}, tally)
	assert.Equal(t, 4, tally.Games())
	assert.Equal(t, "+2 -2 =0", tally.String())

	// Both players get each color of an opening before it changes.
	assert.Equal(t, []string{DefaultStartFEN, DefaultStartFEN, sicilianFEN, sicilianFEN}, fens)

	require.Len(t, results, 4)
	assert.Equal(t, "alpha", results[0].Players[0].Name)
	assert.True(t, results[0].FirstIsWhite)
	assert.Equal(t, "beta", results[1].Players[0].Name)
	assert.False(t, results[1].FirstIsWhite)
	assert.Equal(t, "alpha wins by Checkmate", results[0].String())
	assert.Equal(t, "beta wins by Checkmate", results[1].String())
}

func TestRunSeriesConcurrentWorkers(t *testing.T) {
	adjudicator := adjudicatorFunc(func(_ context.Context, _ []string, _ string) (arbiter.Verdict, error) {
		return arbiter.Verdict{GameOver: true, Winner: "draw", Reason: "Stalemate"}, nil
	})

	config := &SeriesConfig{
		Match: Config{
			Players:  twoPlayers(scriptedPlayer(t, "e2e4"), scriptedPlayer(t, "e7e5")),
			Arbiter:  adjudicator,
			MoveTime: 10 * time.Millisecond,
		},
		Games:       6,
		Concurrency: 3,
	}

	tally, err := RunSeries(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, Tally{Draws: 6}, tally)
}

func TestRunSeriesAbortsOnSetupFailure(t *testing.T) {
	config := &SeriesConfig{
		Match: Config{
			Players: twoPlayers(scriptedPlayer(t, "e2e4"), filepath.Join(t.TempDir(), "missing")),
			Arbiter: echoAdjudicator(),
		},
		Games:       2,
		Concurrency: 2,
	}

	_, err := RunSeries(context.Background(), config)
	require.Error(t, err)
}

func TestTallyScoring(t *testing.T) {
	var tally Tally

	tally.add(GameResult{FirstIsWhite: true, Outcome: Outcome{Winner: WinnerWhite}})
	tally.add(GameResult{FirstIsWhite: false, Outcome: Outcome{Winner: WinnerWhite}})
	tally.add(GameResult{FirstIsWhite: false, Outcome: Outcome{Winner: WinnerBlack}})
	tally.add(GameResult{FirstIsWhite: true, Outcome: Outcome{Winner: WinnerDraw}})

	assert.Equal(t, Tally{Wins: 2, Losses: 1, Draws: 1}, tally)
}
