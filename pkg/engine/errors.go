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

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrReadTimeout is returned by Await when the expected line never
	// arrives within the wait budget.
	ErrReadTimeout = errors.New("engine: read i/o timeout")

	// ErrHandshakeTimeout is returned when the engine fails to report
	// readiness in time. The process has already been killed.
	ErrHandshakeTimeout = errors.New("engine: handshake timed out")

	// ErrMoveTimeout is returned when no bestmove response arrives in
	// time. The process has already been killed.
	ErrMoveTimeout = errors.New("engine: move request timed out")

	// ErrInvalidMove is returned when the engine reports the no-move
	// sentinel instead of a playable move.
	ErrInvalidMove = errors.New("engine: no legal move returned")

	// ErrRequestInFlight is returned when a move is requested while a
	// previous request on the same engine is still outstanding.
	ErrRequestInFlight = errors.New("engine: move request already in flight")

	// ErrProcessExited is returned when the engine process dies while
	// a response is being awaited.
	ErrProcessExited = errors.New("engine: process exited")
)

// SpawnError wraps an OS-level failure to start the engine process or
// attach to its standard streams.
type SpawnError struct {
	Path string
	Err  error
}

func (err *SpawnError) Error() string {
	return fmt.Sprintf("engine: spawn %s: %v", err.Path, err.Err)
}

func (err *SpawnError) Unwrap() error { return err.Err }
