package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/auth"
	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: database.MemoryURL}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status string
		role   string
		gated  []string
		want   string
	}{
		{"anonymous admin", "/admin/dashboard", "unauthenticated", "", nil, "admin\tredirect /admin\n"},
		{"anonymous worker", "/worker/tasks", "unauthenticated", "", nil, "worker\tredirect /worker\n"},
		{"loading", "/admin/dashboard", "loading", "", nil, "admin\tpending\n"},
		{"staff on admin", "/admin/dashboard", "authenticated", "staff", nil, "admin\tredirect /\n"},
		{"admin on admin", "/admin/dashboard", "authenticated", "admin", nil, "admin\trender\n"},
		{"no role", "/worker/dashboard", "authenticated", "", nil, "worker\trender\n"},
		{"public", "/tours", "unauthenticated", "", nil, "public\trender\n"},
		{"gated public", "/gallery", "unauthenticated", "", []string{"/gallery"}, "public\tredirect /admin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runCheckAccess(&out, tt.path, tt.status, tt.role, tt.gated))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCheckAccessRejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runCheckAccess(&out, "/", "sleepy", "", nil))
	assert.Error(t, runCheckAccess(&out, "/", "authenticated", "root", nil))
	assert.Error(t, runCheckAccess(&out, "/", "unauthenticated", "admin", nil))
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	var out bytes.Buffer
	err := runCreateUser(ctx, db, createUserInput{Email: "kim@wanderlust.test", Name: "Kim", Password: "hunter2hunter2", Role: "admin"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created admin user kim@wanderlust.test")

	var user models.User
	require.NoError(t, db.Where("email = ?", "kim@wanderlust.test").First(&user).Error)
	assert.Equal(t, "admin", user.Role)
	assert.NoError(t, auth.VerifyPassword("hunter2hunter2", user.PasswordHash))

	// The deployment now has a signing secret
	_, ok, err := auth.LoadSecret(ctx, db)
	require.NoError(t, err)
	assert.True(t, ok)

	err = runCreateUser(ctx, db, createUserInput{Email: "kim@wanderlust.test", Password: "hunter2hunter2", Role: "staff"}, &out)
	assert.ErrorContains(t, err, "already exists")

	err = runCreateUser(ctx, db, createUserInput{Email: "x@wanderlust.test", Password: "hunter2hunter2", Role: "owner"}, &out)
	assert.ErrorContains(t, err, "invalid role")

	err = runCreateUser(ctx, db, createUserInput{Email: "y@wanderlust.test", Password: "short", Role: "staff"}, &out)
	assert.Error(t, err)
}

func TestSeedAndStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
destinations:
  - name: Lisbon
    slug: lisbon
    tours:
      - title: Tram 28
        slug: tram-28
        price: 25
team:
  - name: Rui
    position: Guide
`), 0o600))

	var out bytes.Buffer
	require.NoError(t, runSeed(ctx, db, path, &out, zerolog.Nop()))
	assert.Contains(t, out.String(), "Seeded 1 destinations")

	out.Reset()
	require.NoError(t, runSeed(ctx, db, path, &out, zerolog.Nop()))
	assert.Contains(t, out.String(), "Nothing was seeded")

	out.Reset()
	require.NoError(t, runStats(ctx, db, true, &out))
	assert.Regexp(t, `tours\s+1\n`, out.String())
	assert.Regexp(t, `destinations\s+1\n`, out.String())

	var snapshots int64
	require.NoError(t, db.Model(&models.DashboardSnapshot{}).Count(&snapshots).Error)
	assert.Equal(t, int64(1), snapshots)

	assert.Error(t, runSeed(ctx, db, filepath.Join(t.TempDir(), "missing.yaml"), &out, zerolog.Nop()))
}
