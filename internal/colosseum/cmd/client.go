package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/backrank/colosseum/pkg/arbiter"
	"github.com/backrank/colosseum/pkg/engine"
)

// registerArbiterFlags adds the arbiter connection flags shared by
// every command that talks to the adjudication service. A .env file
// or the environment seeds the defaults.
func registerArbiterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("primary", "p", os.Getenv("COLOSSEUM_ARBITER_PRIMARY"), "Primary arbiter endpoint")
	cmd.Flags().StringP("secondary", "s", os.Getenv("COLOSSEUM_ARBITER_SECONDARY"), "Secondary arbiter endpoint")
	cmd.Flags().StringP("local", "l", os.Getenv("COLOSSEUM_ARBITER_LOCAL"), "Local arbiter engine binary")
}

// arbiterClient builds the adjudication client from the command's
// flags.
func arbiterClient(cmd *cobra.Command) *arbiter.Client {
	primary, _ := cmd.Flags().GetString("primary")
	secondary, _ := cmd.Flags().GetString("secondary")
	local, _ := cmd.Flags().GetString("local")

	var movetime time.Duration
	if flag := cmd.Flag("movetime"); flag != nil {
		movetime, _ = cmd.Flags().GetDuration("movetime")
	}

	return arbiter.NewClient(arbiter.Config{
		Endpoints: arbiter.Endpoints{Primary: primary, Secondary: secondary},
		LocalPath: local,
		MoveTime:  movetime,
	})
}

// sandboxFromFlag turns the --sandbox command prefix into an engine
// sandbox, or nil when the flag is unset.
func sandboxFromFlag(cmd *cobra.Command) engine.Sandbox {
	wrapper, _ := cmd.Flags().GetString("sandbox")

	fields := strings.Fields(wrapper)
	if len(fields) == 0 {
		return nil
	}

	return &engine.Wrapper{Path: fields[0], Args: fields[1:]}
}

// playerName derives a display name from a program path.
func playerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
