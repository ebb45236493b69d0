package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/backrank/colosseum/pkg/common"
	"github.com/backrank/colosseum/pkg/internal/util"
)

// colosseum builds
func Builds() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List the compiled player binaries",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(common.BinaryDirectory)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if clean, _ := cmd.Flags().GetBool("clean"); clean {
				for _, entry := range entries {
					if err := os.Remove(filepath.Join(common.BinaryDirectory, entry.Name())); err != nil {
						return err
					}
				}

				fmt.Printf("\x1b[32mRemoved %d compiled binaries.\x1b[0m\n", len(entries))
				return nil
			}

			if len(entries) == 0 {
				fmt.Println("\x1b[31mNo Compiled Players.\x1b[0m")
				return nil
			}

			sort.Slice(entries, func(i, j int) bool {
				return util.AlphanumCompare(entries[i].Name(), entries[j].Name())
			})

			fmt.Println("\u001B[32mCompiled Players\u001B[0m:\n")
			for _, entry := range entries {
				info, err := entry.Info()
				if err != nil {
					return err
				}

				fmt.Printf("- %-40s %10d bytes\n", entry.Name(), info.Size())
			}

			return nil
		},
	}

	cmd.Flags().Bool("clean", false, "Remove all compiled player binaries")

	return cmd
}
