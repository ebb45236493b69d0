package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/backrank/colosseum/pkg/engine"
)

// colosseum arbiter
func Arbiter() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbiter",
		Short: "Inspect the adjudication service",
	}

	cmd.AddCommand(Ping())
	cmd.AddCommand(Evaluate())

	return cmd
}

// colosseum arbiter ping
func Ping() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Health-check the arbiter endpoints",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			client := arbiterClient(cmd)

			if client.Ping(cmd.Context()) {
				fmt.Println("\x1b[32mArbiter is reachable.\x1b[0m")
				if path := client.LocalPath(); path != "" {
					fmt.Printf("Local fallback: %s\n", path)
				}
				return nil
			}

			if path := client.LocalPath(); path != "" {
				fmt.Printf("\x1b[33mNo endpoint answered; local fallback available:\x1b[0m %s\n", path)
				return nil
			}

			return errors.New("no arbiter endpoint answered and no local fallback was found")
		},
	}

	registerArbiterFlags(cmd)
	return cmd
}

// colosseum arbiter eval
func Evaluate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval fen",
		Short: "Ask the arbiter for a static judgment of a position",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`eval submits a single position to the arbiter and prints its
			judgment: whether the game is over, who stands to win, and
			the move it would play.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			client := arbiterClient(cmd)

			movetime, _ := cmd.Flags().GetDuration("movetime")
			verdict, err := client.Evaluate(cmd.Context(), args[0], movetime)
			if err != nil {
				return err
			}

			if verdict.GameOver {
				fmt.Println("\x1b[33mGame over.\x1b[0m")
				if verdict.Winner != "" {
					fmt.Printf("Winner: %s\n", verdict.Winner)
				}
				if verdict.Reason != "" {
					fmt.Printf("Reason: %s\n", verdict.Reason)
				}
				return nil
			}

			fmt.Printf("Best move: \x1b[34m%s\x1b[0m\n", verdict.BestMove)
			return nil
		},
	}

	registerArbiterFlags(cmd)
	cmd.Flags().Duration("movetime", engine.DefaultMoveTime, "Compute budget for the judgment")

	return cmd
}
