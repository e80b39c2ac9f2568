package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/models"
	"github.com/wanderlust-tours/wanderlust/internal/stats"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the current content and account counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)
			return runStats(cmd.Context(), db, save, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the result as the dashboard snapshot")

	return cmd
}

func runStats(ctx context.Context, db *gorm.DB, save bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		snap *models.DashboardSnapshot
		err  error
	)
	if save {
		snap, err = stats.Refresh(ctx, db)
	} else {
		snap, err = stats.Compute(ctx, db)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tCOUNT")
	fmt.Fprintln(w, "──────\t─────")
	rows := []struct {
		name  string
		count int64
	}{
		{"tours", snap.Tours},
		{"destinations", snap.Destinations},
		{"gallery images", snap.GalleryImages},
		{"approved testimonials", snap.ApprovedTestimonials},
		{"pending testimonials", snap.PendingTestimonials},
		{"admin users", snap.AdminUsers},
		{"staff users", snap.StaffUsers},
		{"wishlists", snap.Wishlists},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.name, r.count)
	}

	return w.Flush()
}
