package cli

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirscan/internal/archive"
)

// ErrCompress is returned when at least one file could not be archived.
var ErrCompress = errors.New("compression failed")

// compressCommand stores each file in its own zip archive next to it.
func compressCommand() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "compress FILE...",
		Short: "Store each file in <file>.zip",
		Long: heredoc.Doc(`
			Writes one archive per file, named after the file with a .zip suffix.
			Each archive holds a single stored entry named after the file's base name.
			Files are processed concurrently; a failure does not stop the others.
		`),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0

			for _, result := range archive.Compress(cmd.Context(), args, workers) {
				if result.Err != nil {
					failed++

					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.Source, result.Err)

					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", result.Source, result.Archive)
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", ErrCompress, failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent compressions (0=number of CPUs)")

	return cmd
}
