package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/access"
	"github.com/wanderlust-tours/wanderlust/internal/auth"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

type createUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// NewCreateUserCmd creates the create-user command
func NewCreateUserCmd() *cobra.Command {
	var in createUserInput

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin or staff account",
		Long: `Create an admin or staff account directly in the database.

The signing secret is generated as well when the deployment has none yet, so
the server resolves sessions on its next start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)
			return runCreateUser(cmd.Context(), db, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Email address used to sign in")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password (at least 8 characters)")
	cmd.Flags().StringVar(&in.Role, "role", string(access.RoleStaff), "Role: admin or staff")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateUser(ctx context.Context, db *gorm.DB, in createUserInput, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	role := access.Role(in.Role)
	if role != access.RoleAdmin && role != access.RoleStaff {
		return fmt.Errorf("invalid role %q: must be admin or staff", in.Role)
	}
	if len(in.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("a user with email %s already exists", in.Email)
	}

	if _, err := auth.LoadOrCreateSecret(ctx, db); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         name,
		Role:         string(role),
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
