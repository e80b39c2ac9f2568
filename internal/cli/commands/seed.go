package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/seed"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load website content from a YAML file into an empty database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, log, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)
			return runSeed(cmd.Context(), db, args[0], cmd.OutOrStdout(), log)
		},
	}
}

func runSeed(ctx context.Context, db *gorm.DB, path string, out io.Writer, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	content, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	applied, err := seed.Apply(ctx, db, content, log)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintln(out, "Database already has content. Nothing was seeded.")
		return nil
	}

	fmt.Fprintf(out, "Seeded %d destinations, %d gallery images, %d testimonials and %d team members.\n",
		len(content.Destinations), len(content.Gallery), len(content.Testimonials), len(content.Team))
	return nil
}
