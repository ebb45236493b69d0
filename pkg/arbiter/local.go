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

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/backrank/colosseum/pkg/common"
	"github.com/backrank/colosseum/pkg/engine"
)

// DiscoverLocal resolves the local fallback engine: the explicit path
// when given, otherwise the shared engines directory, otherwise $PATH.
// Returns "" when nothing is found; the ladder then has no local tier.
func DiscoverLocal(explicit string) string {
	if explicit != "" {
		return explicit
	}

	installed := filepath.Join(common.EnginesDirectory, common.LocalArbiterName)
	if _, err := os.Stat(installed); err == nil {
		return installed
	}

	if path, err := exec.LookPath(common.LocalArbiterName); err == nil {
		return path
	}

	return ""
}

// localResponse is the JSON-shaped final line the local engine prints
// after computing. It carries the same fields the network tiers do.
type localResponse struct {
	BestMove   string `json:"bestMove"`
	NewFEN     string `json:"newFen"`
	IsGameOver bool   `json:"isGameOver"`
	Winner     string `json:"winner"`
	Reason     string `json:"reason"`
}

func (resp localResponse) meaningful() bool {
	return resp.BestMove != "" || resp.NewFEN != "" || resp.IsGameOver
}

func (resp localResponse) verdict() Verdict {
	verdict := Verdict{
		NewFEN: resp.NewFEN,
		Winner: resp.Winner,
		Reason: resp.Reason,
	}

	if resp.IsGameOver || resp.BestMove == noMoveWire {
		verdict.GameOver = true
	} else {
		verdict.BestMove = resp.BestMove
	}

	return verdict
}

// localCall spawns the local engine fresh, feeds it the position and
// compute budget over the line protocol, and parses the JSON-shaped
// final response. The process never outlives the call.
func (c *Client) localCall(ctx context.Context, fen string, budget time.Duration) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	logrus.Debugf("Adjudicating via local engine: %s", c.local)

	proc, err := engine.Start(engine.Config{Name: "arbiter", Cmd: c.local})
	if err != nil {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: %w", err)
	}
	defer proc.Terminate()

	if err := proc.Write(engine.PositionCommand(fen)); err != nil {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: %w", err)
	}

	if err := proc.Write(engine.GoCommand(budget)); err != nil {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: %w", err)
	}

	line, err := proc.Await(`^\{.*\}$`, budget+engine.DefaultMoveTimeout)
	if err != nil {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: %w", err)
	}

	var resp localResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: malformed response: %w", err)
	}

	if !resp.meaningful() {
		return Verdict{}, fmt.Errorf("arbiter: local fallback: response carries no move or position")
	}

	return resp.verdict(), nil
}
