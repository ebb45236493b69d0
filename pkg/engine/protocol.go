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
	"fmt"
	"strings"
	"time"
)

// The wire grammar: newline-terminated ASCII command lines in,
// marker-scanned response lines out. Everything the engine prints that
// carries no marker token is ignored.
const (
	commandUCI     = "uci"
	commandIsReady = "isready"
	commandQuit    = "quit"

	tokenReady    = "readyok"
	tokenBestMove = "bestmove"
)

// NoMove is the sentinel an engine reports in place of a move when it
// has no legal move available.
const NoMove = "(none)"

// PositionCommand encodes the command that sets the engine's board to
// the given position.
func PositionCommand(fen string) string {
	return "position fen " + fen
}

// GoCommand encodes the command that starts a move computation bounded
// by the given budget.
func GoCommand(movetime time.Duration) string {
	return fmt.Sprintf("go movetime %d", movetime.Milliseconds())
}

// ParseBestMove extracts the move from a response line: the first
// whitespace-delimited token following the bestmove marker. It reports
// false when the marker is missing or trails the line with no token
// after it. No legality checking happens here; that is the arbiter's
// job.
func ParseBestMove(line string) (string, bool) {
	fields := strings.Fields(line)
	for i, field := range fields {
		if field == tokenBestMove && i+1 < len(fields) {
			return fields[i+1], true
		}
	}

	return "", false
}
