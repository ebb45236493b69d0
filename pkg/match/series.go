// Copyright © 2026 The Colosseum Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SeriesConfig drives a series of games between the two configured
// players, alternating colors every game.
type SeriesConfig struct {
	// Match is the per-game template. Its Players field fixes the
	// series order: seat 0 is the player the tally speaks for, with
	// white in the odd-numbered games.
	Match Config

	Games       int
	Concurrency int

	// Openings supplies start positions; consecutive game pairs share
	// one opening so both players get each color of it. Nil plays
	// every game from the default position.
	Openings *Book

	// OnResult observes finished games in completion order.
	OnResult func(GameResult)
}

// GameResult is one finished game of a series.
type GameResult struct {
	Number int

	// Players is the seating for this game, seat 0 = white.
	Players [2]Player

	// FirstIsWhite records whether the series' first player held the
	// white seat.
	FirstIsWhite bool

	Outcome Outcome
}

// String renders the result the way a tournament report would.
func (result GameResult) String() string {
	switch result.Outcome.Winner {
	case WinnerWhite:
		return fmt.Sprintf("%s wins by %s", result.Players[0].Name, result.Outcome.Reason)
	case WinnerBlack:
		return fmt.Sprintf("%s wins by %s", result.Players[1].Name, result.Outcome.Reason)
	case WinnerDraw:
		return fmt.Sprintf("Draw by %s", result.Outcome.Reason)
	default:
		return "unfinished"
	}
}

// Tally is a series score from the first player's perspective.
type Tally struct {
	Wins, Losses, Draws int
}

// Games returns the number of tallied games.
func (tally Tally) Games() int {
	return tally.Wins + tally.Losses + tally.Draws
}

// String renders the score as +wins -losses =draws.
func (tally Tally) String() string {
	return fmt.Sprintf("+%d -%d =%d", tally.Wins, tally.Losses, tally.Draws)
}

// add scores one game for the series' first player.
func (tally *Tally) add(result GameResult) {
	switch {
	case result.Outcome.Winner == WinnerDraw:
		tally.Draws++
	case (result.Outcome.Winner == WinnerWhite) == result.FirstIsWhite:
		tally.Wins++
	default:
		tally.Losses++
	}
}

// seriesGame is one scheduled game of a series.
type seriesGame struct {
	number       int
	players      [2]Player
	fen          string
	firstIsWhite bool
}

// RunSeries plays the configured series, spreading games over the
// configured number of concurrent workers. A game that fails to start
// aborts the whole series; sporting results never do.
func RunSeries(ctx context.Context, config *SeriesConfig) (Tally, error) {
	games := config.Games
	if games <= 0 {
		games = 1
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	players := config.Match.Players
	for side := range players {
		if players[side].Name == "" {
			players[side].Name = seatNames[side]
		}
	}

	group, ctx := errgroup.WithContext(ctx)

	scheduled := make(chan seriesGame)
	results := make(chan GameResult)

	group.Go(func() error {
		defer close(scheduled)

		for number := 1; number <= games; number++ {
			game := seriesGame{
				number:       number,
				players:      players,
				firstIsWhite: true,
			}

			if config.Openings != nil {
				game.fen = config.Openings.Current()
			}

			if number%2 == 0 {
				game.players[0], game.players[1] = game.players[1], game.players[0]
				game.firstIsWhite = false

				// The pair is complete; move to a fresh opening.
				if config.Openings != nil {
					config.Openings.Next()
				}
			}

			select {
			case scheduled <- game:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	var tally Tally
	group.Go(func() error {
		for result := range results {
			tally.add(result)

			logrus.Infof(
				"\x1b[32mFinished\x1b[0m Game #%d: %s vs %s: %s (%s)\n",
				result.Number,
				result.Players[0].Name,
				result.Players[1].Name,
				result,
				tally,
			)

			if config.OnResult != nil {
				config.OnResult(result)
			}
		}

		return nil
	})

	var workers sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		workers.Add(1)
		group.Go(func() error {
			defer workers.Done()
			return playScheduled(ctx, &config.Match, scheduled, results)
		})
	}

	group.Go(func() error {
		workers.Wait()
		close(results)
		return nil
	})

	err := group.Wait()
	return tally, err
}

// playScheduled runs games off the schedule until it drains.
func playScheduled(
	ctx context.Context,
	template *Config,
	scheduled <-chan seriesGame,
	results chan<- GameResult,
) error {
	for game := range scheduled {
		run := *template
		run.Players = game.players
		if game.fen != "" {
			run.StartFEN = game.fen
		}

		logrus.Infof(
			"\x1b[33mStarting\x1b[0m Game #%d: %s vs %s\n",
			game.number,
			run.Players[0].Name,
			run.Players[1].Name,
		)

		outcome := Run(ctx, &run)
		if outcome.Err != nil {
			return fmt.Errorf("game %d: %w", game.number, outcome.Err)
		}

		result := GameResult{
			Number:       game.number,
			Players:      game.players,
			FirstIsWhite: game.firstIsWhite,
			Outcome:      outcome,
		}

		select {
		case results <- result:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
