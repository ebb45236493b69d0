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

import "time"

// Status is a match's lifecycle state.
type Status string

const (
	StatusInitializing Status = "INITIALIZING"
	StatusRunning      Status = "RUNNING"
	StatusCompleted    Status = "COMPLETED"
	StatusError        Status = "ERROR"
)

// Winner names the outcome of a completed match.
type Winner string

const (
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

// GameWonBy maps a seat index to the Winner recorded when that seat
// wins. White sits at seat 0.
var GameWonBy = [2]Winner{WinnerWhite, WinnerBlack}

// GameLostBy maps a seat index to the Winner recorded when that seat
// loses, which is to say its opponent.
var GameLostBy = [2]Winner{WinnerBlack, WinnerWhite}

// ParseWinner maps the arbiter's wire spelling of an outcome to a
// Winner.
func ParseWinner(s string) (Winner, bool) {
	switch winner := Winner(s); winner {
	case WinnerWhite, WinnerBlack, WinnerDraw:
		return winner, true
	default:
		return "", false
	}
}

// Record is the externally visible state of a single match. Mutated
// only by the coordinator driving the match; everyone else sees
// copies.
type Record struct {
	ID string `json:"id"`

	White string `json:"white"`
	Black string `json:"black"`

	Status Status   `json:"status"`
	Moves  []string `json:"moves"`

	Winner Winner `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`

	// Error carries the failure detail when Status is ERROR.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal reports whether the record has reached a final state.
func (record Record) Terminal() bool {
	return record.Status == StatusCompleted || record.Status == StatusError
}

// clone deep-copies the record so callers can't reach the stored
// moves slice.
func (record Record) clone() Record {
	if record.Moves != nil {
		moves := make([]string, len(record.Moves))
		copy(moves, record.Moves)
		record.Moves = moves
	}

	return record
}
