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

package arbiter

// Verdict is the arbiter's adjudication of a position: the best
// continuation and, when provided, the advanced position — or a
// terminal game result.
type Verdict struct {
	// BestMove is the arbiter's move for the side to move. Empty when
	// the game is over.
	BestMove string

	// NewFEN is the authoritative position after the adjudicated ply.
	// May be empty; the caller decides how to treat that.
	NewFEN string

	// GameOver marks a terminal verdict.
	GameOver bool

	// Winner is "white", "black" or "draw" when the arbiter names an
	// outcome; empty when it only reports that no move exists.
	Winner string

	// Reason is the arbiter's explanation for a terminal verdict.
	Reason string
}

// noMoveWire is the over-the-wire sentinel for "no legal move". Note
// that engines use a different sentinel on the line protocol.
const noMoveWire = "none"

type bestMoveRequest struct {
	Moves []string `json:"moves"`
}

type bestMoveResponse struct {
	BestMove string `json:"bestMove"`
	NewFEN   string `json:"newFen"`
}

// meaningful is the content predicate for adjudication responses: a
// well-formed body that carries neither a move nor a position is
// treated like a failed request.
func (resp bestMoveResponse) meaningful() bool {
	return resp.BestMove != "" || resp.NewFEN != ""
}

func (resp bestMoveResponse) verdict() Verdict {
	if resp.BestMove == noMoveWire {
		return Verdict{GameOver: true, NewFEN: resp.NewFEN}
	}

	return Verdict{BestMove: resp.BestMove, NewFEN: resp.NewFEN}
}

type evaluateRequest struct {
	FEN       string `json:"fen"`
	TimeLimit int64  `json:"timeLimit"`
}

type evaluateResponse struct {
	IsGameOver *bool  `json:"isGameOver"`
	Winner     string `json:"winner"`
	Reason     string `json:"reason"`
	BestMove   string `json:"bestMove"`
}

func (resp evaluateResponse) meaningful() bool {
	return resp.IsGameOver != nil || resp.BestMove != "" || resp.Winner != ""
}

func (resp evaluateResponse) verdict() Verdict {
	verdict := Verdict{
		Winner: resp.Winner,
		Reason: resp.Reason,
	}

	if resp.BestMove != noMoveWire {
		verdict.BestMove = resp.BestMove
	}

	if resp.IsGameOver != nil && *resp.IsGameOver {
		verdict.GameOver = true
		verdict.BestMove = ""
	}

	return verdict
}

type healthResponse struct {
	Status string `json:"status"`
}

// healthy is the content predicate for health checks: an explicit
// status-ok marker, nothing less.
func (resp healthResponse) healthy() bool {
	return resp.Status == "ok"
}
