package stats

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/kv"
	"github.com/wanderlust-tours/wanderlust/internal/models"
	"github.com/wanderlust-tours/wanderlust/internal/wishlist"
)

func TestComputeAndLatest(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{URL: database.MemoryURL}, zerolog.Nop())
	require.NoError(t, err)
	defer database.Close(db)

	dest := models.Destination{Name: "Peru", Slug: "peru"}
	require.NoError(t, db.Create(&dest).Error)
	require.NoError(t, db.Create(&models.Tour{DestinationID: dest.ID, Title: "Inca trail", Slug: "inca-trail"}).Error)
	require.NoError(t, db.Create(&models.Testimonial{Author: "A", Quote: "q", Approved: true}).Error)
	require.NoError(t, db.Create(&models.Testimonial{Author: "B", Quote: "q"}).Error)
	require.NoError(t, db.Create(&models.User{Email: "s@x.io", PasswordHash: "x", Role: "staff"}).Error)
	require.NoError(t, db.Create(&models.User{Email: "a@x.io", PasswordHash: "x", Role: "admin"}).Error)

	store := kv.NewGormStore(db)
	w := wishlist.Load(ctx, kv.Scoped(store, kv.VisitorNamespace("v1")), zerolog.Nop())
	w.AddTour(ctx, wishlist.Tour{ID: 1})
	w.AddDestination(ctx, wishlist.Destination{ID: 1})

	snap, err := Compute(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Tours)
	assert.Equal(t, int64(1), snap.Destinations)
	assert.Equal(t, int64(1), snap.ApprovedTestimonials)
	assert.Equal(t, int64(1), snap.PendingTestimonials)
	assert.Equal(t, int64(1), snap.StaffUsers)
	assert.Equal(t, int64(1), snap.AdminUsers)
	assert.Equal(t, int64(1), snap.Wishlists)
	assert.Empty(t, snap.ID, "Compute does not persist")

	latest, err := Latest(ctx, db)
	require.NoError(t, err)
	assert.NotEmpty(t, latest.ID)

	again, err := Latest(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, again.ID)
}
