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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/backrank/colosseum/pkg/arbiter"
	"github.com/backrank/colosseum/pkg/engine"
	"github.com/backrank/colosseum/pkg/match"
)

// seriesFile mirrors the YAML layout of a series configuration.
type seriesFile struct {
	Players []match.Player `yaml:"players"`

	Games       int `yaml:"games"`
	Concurrency int `yaml:"concurrency"`

	Openings struct {
		File  string `yaml:"file"`
		Order string `yaml:"order"`
	} `yaml:"openings"`

	MoveTime       time.Duration `yaml:"movetime"`
	MoveLimit      int           `yaml:"move-limit"`
	StartFEN       string        `yaml:"start-fen"`
	StrictPosition bool          `yaml:"strict-position"`

	Arbiter struct {
		arbiter.Endpoints `yaml:",inline"`
		Local             string `yaml:"local"`
	} `yaml:"arbiter"`
}

// colosseum series
func Series() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series [first-program second-program]",
		Short: "Play a series of games with alternating colors",
		Args:  cobra.RangeArgs(0, 2),
		Long: heredoc.Doc(`series plays a multi-game series between two programs,
			alternating colors every game so neither player keeps the
			first-move advantage. When an opening book is given,
			consecutive game pairs share an opening so both players
			get each color of every position.

			The players come either from the command line or from a
			YAML configuration file; explicit flags override the
			file.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			var config seriesFile

			if file, _ := cmd.Flags().GetString("config"); file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}

				if err := yaml.Unmarshal(data, &config); err != nil {
					return err
				}
			}

			if len(args) == 2 {
				config.Players = []match.Player{
					{Name: playerName(args[0]), Path: args[0]},
					{Name: playerName(args[1]), Path: args[1]},
				}
			}

			if len(config.Players) != 2 {
				return errors.New("series needs exactly two players")
			}

			for i := range config.Players {
				if config.Players[i].Name == "" {
					config.Players[i].Name = playerName(config.Players[i].Path)
				}
			}

			if games, _ := cmd.Flags().GetInt("games"); cmd.Flag("games").Changed || config.Games == 0 {
				config.Games = games
			}
			if concurrency, _ := cmd.Flags().GetInt("concurrency"); cmd.Flag("concurrency").Changed || config.Concurrency == 0 {
				config.Concurrency = concurrency
			}
			if movetime, _ := cmd.Flags().GetDuration("movetime"); cmd.Flag("movetime").Changed || config.MoveTime == 0 {
				config.MoveTime = movetime
			}
			if limit, _ := cmd.Flags().GetInt("move-limit"); cmd.Flag("move-limit").Changed || config.MoveLimit == 0 {
				config.MoveLimit = limit
			}
			if strict, _ := cmd.Flags().GetBool("strict-position"); cmd.Flag("strict-position").Changed {
				config.StrictPosition = strict
			}
			if book, _ := cmd.Flags().GetString("openings"); cmd.Flag("openings").Changed {
				config.Openings.File = book
			}
			if order, _ := cmd.Flags().GetString("order"); cmd.Flag("order").Changed || config.Openings.Order == "" {
				config.Openings.Order = order
			}
			if primary, _ := cmd.Flags().GetString("primary"); cmd.Flag("primary").Changed || config.Arbiter.Primary == "" {
				config.Arbiter.Primary = primary
			}
			if secondary, _ := cmd.Flags().GetString("secondary"); cmd.Flag("secondary").Changed || config.Arbiter.Secondary == "" {
				config.Arbiter.Secondary = secondary
			}
			if local, _ := cmd.Flags().GetString("local"); cmd.Flag("local").Changed || config.Arbiter.Local == "" {
				config.Arbiter.Local = local
			}

			client := arbiter.NewClient(arbiter.Config{
				Endpoints: config.Arbiter.Endpoints,
				LocalPath: config.Arbiter.Local,
				MoveTime:  config.MoveTime,
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go client.KeepWarm(ctx)

			var book *match.Book
			if config.Openings.File != "" {
				var err error
				if book, err = match.NewBook(config.Openings.File, config.Openings.Order); err != nil {
					return err
				}
			}

			series := &match.SeriesConfig{
				Match: match.Config{
					Players: [2]match.Player{config.Players[0], config.Players[1]},

					StartFEN:       config.StartFEN,
					MoveLimit:      config.MoveLimit,
					MoveTime:       config.MoveTime,
					StrictPosition: config.StrictPosition,

					Sandbox: sandboxFromFlag(cmd),
					Arbiter: client,
				},

				Games:       config.Games,
				Concurrency: config.Concurrency,
				Openings:    book,
			}

			tally, err := match.RunSeries(ctx, series)
			if err != nil {
				return err
			}

			fmt.Printf(
				"\nScore of \x1b[34m%s\x1b[0m vs \x1b[34m%s\x1b[0m: \x1b[33m%s\x1b[0m (%d games)\n",
				config.Players[0].Name,
				config.Players[1].Name,
				tally,
				tally.Games(),
			)

			return nil
		},
	}

	registerArbiterFlags(cmd)
	cmd.Flags().Duration("movetime", engine.DefaultMoveTime, "Compute budget granted per move")
	cmd.Flags().IntP("games", "n", 2, "Number of games to play")
	cmd.Flags().IntP("concurrency", "c", 1, "Number of games to run in parallel")
	cmd.Flags().String("openings", "", "Opening book file, one FEN per line")
	cmd.Flags().String("order", "sequential", "Opening book order (sequential or random)")
	cmd.Flags().String("config", "", "YAML series configuration file")
	cmd.Flags().Int("move-limit", match.DefaultMoveLimit, "Ply count at which a game is drawn")
	cmd.Flags().Bool("strict-position", false, "Fail a turn whose adjudication omits the new position")
	cmd.Flags().String("sandbox", "", "Command prefix wrapping every spawned program")

	return cmd
}
