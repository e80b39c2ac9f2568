package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wanderlust-tours/wanderlust/internal/access"
)

// NewCheckAccessCmd creates the check-access command
func NewCheckAccessCmd() *cobra.Command {
	var (
		status string
		role   string
		gated  []string
	)

	cmd := &cobra.Command{
		Use:   "check-access PATH",
		Short: "Print the access gate decision for a path",
		Example: `  wanderlust check-access /admin/dashboard
  wanderlust check-access /worker/dashboard --status authenticated --role admin
  wanderlust check-access /gallery --gated /gallery`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("gated") {
				gated = strings.Split(os.Getenv("GATED_PUBLIC_PATHS"), ",")
			}
			return runCheckAccess(cmd.OutOrStdout(), args[0], status, role, gated)
		},
	}

	cmd.Flags().StringVar(&status, "status", string(access.StatusUnauthenticated), "Session status: loading, unauthenticated or authenticated")
	cmd.Flags().StringVar(&role, "role", "", "Role of an authenticated session: admin, staff or empty")
	cmd.Flags().StringSliceVar(&gated, "gated", nil, "Public path prefixes that require a login (defaults to GATED_PUBLIC_PATHS)")

	return cmd
}

func runCheckAccess(out io.Writer, path, status, role string, gated []string) error {
	session := access.Session{Status: access.Status(status), Role: access.Role(role)}

	switch session.Status {
	case access.StatusLoading, access.StatusUnauthenticated, access.StatusAuthenticated:
	default:
		return fmt.Errorf("invalid status %q", status)
	}
	if !session.Role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	if session.Role != access.RoleNone && session.Status != access.StatusAuthenticated {
		return fmt.Errorf("--role requires --status %s", access.StatusAuthenticated)
	}

	decision := access.NewGate(gated...).Evaluate(path, session)
	fmt.Fprintf(out, "%s\t%s\n", access.Classify(path), decision)
	return nil
}
