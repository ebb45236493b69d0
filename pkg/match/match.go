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

// Package match runs adjudicated games between two player programs.
// Each ply is produced by the side to move and validated by an
// external arbiter, which is also the sole authority on positions and
// game termination; the coordinator never computes chess itself.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/backrank/colosseum/pkg/arbiter"
	"github.com/backrank/colosseum/pkg/build"
	"github.com/backrank/colosseum/pkg/engine"
)

const (
	// DefaultMoveLimit is the ply count at which an undecided game is
	// adjudicated as a draw.
	DefaultMoveLimit = 50

	// DefaultStartFEN is the standard initial position.
	DefaultStartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Reasons recorded on outcomes the coordinator itself decides.
const (
	ReasonNoLegalMoves       = "No legal moves available"
	ReasonDrawMoveLimit      = "Draw by move limit"
	ReasonArbiterUnavailable = "Arbiter unavailable"
	ReasonNoPosition         = "Arbiter returned no position"
)

// seatNames are the fallback display names per seat.
var seatNames = [2]string{"white", "black"}

// Player configures one seat of a match. Path may point at a source
// file, which is compiled before the game, or a ready binary, which is
// used as is.
type Player struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"arg"`
}

// Adjudicator decides the fate of each ply: given the move history and
// the last authoritative position it answers with the advanced
// position or a terminal verdict. *arbiter.Client is the production
// implementation.
type Adjudicator interface {
	BestMove(ctx context.Context, history []string, fen string) (arbiter.Verdict, error)
}

type Config struct {
	// Players holds the two seats; seat 0 plays white and moves first.
	Players [2]Player `yaml:"players"`

	StartFEN  string `yaml:"start-fen"`
	MoveLimit int    `yaml:"move-limit"`

	MoveTime         time.Duration `yaml:"movetime"`
	MoveTimeout      time.Duration `yaml:"move-timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout"`

	// StrictPosition fails the turn when the arbiter omits the
	// advanced position instead of silently keeping the previous one.
	StrictPosition bool `yaml:"strict-position"`

	Sandbox engine.Sandbox `yaml:"-"`

	// Builder compiles player sources. Defaults to build.New().
	Builder *build.Builder `yaml:"-"`

	// Arbiter adjudicates every ply. Required.
	Arbiter Adjudicator `yaml:"-"`

	// OnStart fires once both players are ready; OnMove after every
	// accepted ply.
	OnStart func()            `yaml:"-"`
	OnMove  func(move string) `yaml:"-"`
}

// Outcome is the final result of one match.
type Outcome struct {
	// Winner and Reason are set when the match produced a sporting
	// result.
	Winner Winner
	Reason string

	// Moves is the accepted history, including any ply after which
	// the game was adjudicated over.
	Moves []string

	// Err is set instead of a Winner when the match never got
	// running: build, spawn or handshake failure, or cancellation.
	Err error
}

// String renders the outcome from white's perspective.
func (outcome Outcome) String() string {
	switch outcome.Winner {
	case WinnerWhite:
		return "1-0"
	case WinnerBlack:
		return "0-1"
	case WinnerDraw:
		return "1/2-1/2"
	default:
		return "?-?"
	}
}

// Run plays a single match to completion. Failures inside the turn
// loop score as a loss for the side that caused them; failures before
// the loop starts are reported through Outcome.Err. Both player
// processes are torn down on every exit path.
func Run(ctx context.Context, config *Config) Outcome {
	if config.Arbiter == nil {
		return Outcome{Err: errors.New("match: no adjudicator configured")}
	}

	players := config.Players
	for side := range players {
		if players[side].Name == "" {
			players[side].Name = seatNames[side]
		}
	}

	limit := config.MoveLimit
	if limit <= 0 {
		limit = DefaultMoveLimit
	}

	fen := config.StartFEN
	if fen == "" {
		fen = DefaultStartFEN
	}

	builder := config.Builder
	if builder == nil {
		builder = build.New()
	}

	binaries := [2]string{}
	for side := range players {
		binary, err := builder.Build(ctx, players[side].Path)
		if err != nil {
			return Outcome{Err: fmt.Errorf("match: building %s: %w", players[side].Name, err)}
		}

		binaries[side] = binary
	}

	engines := [2]*engine.Engine{}
	for side := range players {
		proc, err := engine.Start(engine.Config{
			Name: players[side].Name,
			Cmd:  binaries[side],
			Arg:  players[side].Arg,
			Dir:  players[side].Dir,

			MoveTime:         config.MoveTime,
			MoveTimeout:      config.MoveTimeout,
			HandshakeTimeout: config.HandshakeTimeout,

			Sandbox: config.Sandbox,
		})
		if err != nil {
			return Outcome{Err: fmt.Errorf("match: starting %s: %w", players[side].Name, err)}
		}

		engines[side] = proc
		defer proc.Terminate()
	}

	for side := range engines {
		if err := engines[side].Handshake(); err != nil {
			return Outcome{Err: fmt.Errorf("match: %s: %w", players[side].Name, err)}
		}
	}

	if config.OnStart != nil {
		config.OnStart()
	}

	moves := make([]string, 0, limit)
	side := 0
	for len(moves) < limit {
		if err := ctx.Err(); err != nil {
			return Outcome{Err: fmt.Errorf("match: cancelled: %w", err), Moves: moves}
		}

		move, err := engines[side].RequestMove(fen)
		if err != nil {
			return Outcome{Winner: GameLostBy[side], Reason: err.Error(), Moves: moves}
		}

		moves = append(moves, move)
		if config.OnMove != nil {
			config.OnMove(move)
		}

		verdict, err := config.Arbiter.BestMove(ctx, moves, fen)
		if err != nil {
			logrus.WithError(err).Warnf("Adjudication failed on %s's turn", players[side].Name)
			return Outcome{Winner: GameLostBy[side], Reason: ReasonArbiterUnavailable, Moves: moves}
		}

		if verdict.GameOver {
			// A bare no-move verdict means the side to move next has
			// no continuation: the side that just moved wins.
			winner := GameWonBy[side]
			reason := verdict.Reason
			if reason == "" {
				reason = ReasonNoLegalMoves
			}
			if named, ok := ParseWinner(verdict.Winner); ok {
				winner = named
			}

			return Outcome{Winner: winner, Reason: reason, Moves: moves}
		}

		switch {
		case verdict.NewFEN != "":
			fen = verdict.NewFEN
		case config.StrictPosition:
			return Outcome{Winner: GameLostBy[side], Reason: ReasonNoPosition, Moves: moves}
		}

		side ^= 1
	}

	return Outcome{Winner: WinnerDraw, Reason: ReasonDrawMoveLimit, Moves: moves}
}
