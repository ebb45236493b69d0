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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/backrank/colosseum/pkg/engine"
	"github.com/backrank/colosseum/pkg/match"
)

// colosseum duel
func Duel() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duel white-program black-program",
		Short: "Play one adjudicated match between two programs",
		Args:  cobra.ExactArgs(2),
		Long: heredoc.Doc(`duel builds the two given programs if necessary, starts them
			as engine processes and plays a single adjudicated game
			between them, white-program holding the white pieces. Every
			ply is validated by the arbiter service; the programs are
			never trusted about legality or game state.

			A program is either a source file with a known toolchain
			extension, which is compiled into the shared binary
			directory first, or a ready-to-run executable, which is
			used as is.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			movetime, _ := cmd.Flags().GetDuration("movetime")
			limit, _ := cmd.Flags().GetInt("move-limit")
			fen, _ := cmd.Flags().GetString("start-fen")
			strict, _ := cmd.Flags().GetBool("strict-position")

			client := arbiterClient(cmd)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go client.KeepWarm(ctx)

			store := match.NewStore(match.StoreConfig{})
			defer store.Close()
			coordinator := &match.Coordinator{Store: store}

			spin := spinner.New(spinner.CharSets[31], 100*time.Millisecond)
			spin.Suffix = " Preparing players..."

			config := &match.Config{
				Players: [2]match.Player{
					{Name: playerName(args[0]), Path: args[0]},
					{Name: playerName(args[1]), Path: args[1]},
				},

				StartFEN:       fen,
				MoveLimit:      limit,
				MoveTime:       movetime,
				StrictPosition: strict,

				Sandbox: sandboxFromFlag(cmd),
				Arbiter: client,

				OnStart: func() { spin.Stop() },
			}

			id := uuid.NewString()
			logrus.Infof(
				"\x1b[33mStarting\x1b[0m Match %s: %s vs %s\n",
				id, config.Players[0].Name, config.Players[1].Name,
			)

			spin.Start()
			record, err := coordinator.Play(ctx, id, config)
			spin.Stop()

			if err != nil {
				return err
			}

			logrus.Infof("\x1b[32mFinished\x1b[0m Match %s\n", id)

			fmt.Printf("\nResult: %s\n", describe(record))
			fmt.Printf("Moves:  %d\n", len(record.Moves))
			return nil
		},
	}

	registerArbiterFlags(cmd)
	cmd.Flags().Duration("movetime", engine.DefaultMoveTime, "Compute budget granted per move")
	cmd.Flags().Int("move-limit", match.DefaultMoveLimit, "Ply count at which the game is drawn")
	cmd.Flags().String("start-fen", match.DefaultStartFEN, "Position the game starts from")
	cmd.Flags().Bool("strict-position", false, "Fail a turn whose adjudication omits the new position")
	cmd.Flags().String("sandbox", "", "Command prefix wrapping every spawned program")

	return cmd
}

// describe renders a terminal record for the report line.
func describe(record match.Record) string {
	switch record.Winner {
	case match.WinnerWhite:
		return fmt.Sprintf("\x1b[32m%s wins\x1b[0m (%s)", record.White, record.Reason)
	case match.WinnerBlack:
		return fmt.Sprintf("\x1b[32m%s wins\x1b[0m (%s)", record.Black, record.Reason)
	case match.WinnerDraw:
		return fmt.Sprintf("Draw (%s)", record.Reason)
	default:
		return string(record.Status)
	}
}
