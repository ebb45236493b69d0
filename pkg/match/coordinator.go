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

	"github.com/sirupsen/logrus"
)

// Coordinator runs matches against a record store, so external
// callers can follow a match by its identifier while it is in flight.
type Coordinator struct {
	Store *Store
}

// Play runs one match under the given externally generated identifier
// and keeps its record current throughout: INITIALIZING on creation,
// RUNNING once both players are ready, every accepted ply as it
// lands, and finally COMPLETED or ERROR.
//
// The returned error reports an identifier collision or a match that
// never got running; the record is the authority on everything else.
func (coordinator *Coordinator) Play(ctx context.Context, id string, config *Config) (Record, error) {
	players := config.Players
	for side := range players {
		if players[side].Name == "" {
			players[side].Name = seatNames[side]
		}
	}

	if _, err := coordinator.Store.Create(Record{
		ID:    id,
		White: players[0].Name,
		Black: players[1].Name,
	}); err != nil {
		return Record{}, err
	}

	run := *config
	callerStart, callerMove := run.OnStart, run.OnMove

	run.OnStart = func() {
		coordinator.update(id, func(record *Record) {
			record.Status = StatusRunning
		})

		if callerStart != nil {
			callerStart()
		}
	}

	run.OnMove = func(move string) {
		coordinator.update(id, func(record *Record) {
			record.Moves = append(record.Moves, move)
		})

		if callerMove != nil {
			callerMove(move)
		}
	}

	outcome := Run(ctx, &run)

	record := coordinator.update(id, func(record *Record) {
		record.Moves = append([]string(nil), outcome.Moves...)

		if outcome.Err != nil {
			record.Status = StatusError
			record.Error = outcome.Err.Error()
			return
		}

		record.Status = StatusCompleted
		record.Winner = outcome.Winner
		record.Reason = outcome.Reason
	})

	return record, outcome.Err
}

// update applies mutate to the match's record. Store failures are
// logged and swallowed: they must never affect a decided match.
func (coordinator *Coordinator) update(id string, mutate func(*Record)) Record {
	record, err := coordinator.Store.Update(id, mutate)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to update record of match %s", id)
	}

	return record
}
