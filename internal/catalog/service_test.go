package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: database.MemoryURL}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return NewService(db, zerolog.Nop())
}

func TestDestinationsAndTours(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	iceland, err := s.CreateDestination(ctx, DestinationInput{Name: "Iceland", Slug: "iceland", Country: "IS", Featured: true})
	require.NoError(t, err)
	bali, err := s.CreateDestination(ctx, DestinationInput{Name: "Bali", Slug: "bali", Country: "ID"})
	require.NoError(t, err)

	glacier, err := s.CreateTour(ctx, TourInput{DestinationID: iceland.ID, Title: "Glacier walk", Slug: "glacier-walk", Price: 150, DurationDays: 1, Rating: 4.8})
	require.NoError(t, err)
	_, err = s.CreateTour(ctx, TourInput{DestinationID: bali.ID, Title: "Rice terraces", Slug: "rice-terraces", Price: 60, DurationDays: 1, Rating: 4.5})
	require.NoError(t, err)

	_, err = s.CreateTour(ctx, TourInput{DestinationID: 999, Title: "Nowhere", Slug: "nowhere", DurationDays: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListDestinations(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Iceland", all[0].Name, "featured destinations come first")

	featured, err := s.ListDestinations(ctx, true)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	tours, err := s.ListTours(ctx, TourFilter{})
	require.NoError(t, err)
	require.Len(t, tours, 2)
	assert.Equal(t, "Glacier walk", tours[0].Title)
	require.NotNil(t, tours[0].Destination)

	baliTours, err := s.ListTours(ctx, TourFilter{DestinationID: bali.ID})
	require.NoError(t, err)
	assert.Len(t, baliTours, 1)

	got, err := s.GetTour(ctx, glacier.ID)
	require.NoError(t, err)
	snap := TourSnapshot(got)
	assert.Equal(t, int(glacier.ID), snap.ID)
	assert.Equal(t, "Iceland", snap.Location)
	assert.Equal(t, 150.0, snap.Price)

	updated, err := s.UpdateTour(ctx, glacier.ID, TourInput{DestinationID: iceland.ID, Title: "Glacier hike", Slug: "glacier-hike", Price: 175, DurationDays: 2})
	require.NoError(t, err)
	assert.Equal(t, "Glacier hike", updated.Title)

	dest, err := s.GetDestination(ctx, iceland.ID)
	require.NoError(t, err)
	assert.Len(t, dest.Tours, 1)
	assert.Equal(t, "Iceland", DestinationSnapshot(dest).Name)

	require.NoError(t, s.DeleteDestination(ctx, iceland.ID))
	_, err = s.GetTour(ctx, glacier.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteDestination(ctx, iceland.ID), ErrNotFound)
}

func TestTestimonialModeration(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	tm := &models.Testimonial{Author: "Mara", Quote: "Unforgettable", Rating: 5, Approved: true}
	require.NoError(t, s.SubmitTestimonial(ctx, tm))
	assert.False(t, tm.Approved, "submissions always start unapproved")

	public, err := s.ListTestimonials(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, public)

	approved, err := s.ApproveTestimonial(ctx, tm.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	public, err = s.ListTestimonials(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	require.NoError(t, s.DeleteTestimonial(ctx, tm.ID))
	_, err = s.ApproveTestimonial(ctx, tm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGalleryAndTeam(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.AddGalleryImage(ctx, &models.GalleryImage{Title: "Sunset", ImageURL: "https://img.example.com/1.jpg"}))
	images, err := s.ListGallery(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.NoError(t, s.DeleteGalleryImage(ctx, images[0].ID))
	assert.ErrorIs(t, s.DeleteGalleryImage(ctx, images[0].ID), ErrNotFound)

	second, err := s.CreateTeamMember(ctx, TeamMemberInput{Name: "Jon", Position: "Guide", Sort: 2})
	require.NoError(t, err)
	_, err = s.CreateTeamMember(ctx, TeamMemberInput{Name: "Ida", Position: "Founder", Sort: 1})
	require.NoError(t, err)

	team, err := s.ListTeam(ctx)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "Ida", team[0].Name)

	moved, err := s.UpdateTeamMember(ctx, second.ID, TeamMemberInput{Name: "Jon", Position: "Lead guide", Sort: 0})
	require.NoError(t, err)
	assert.Equal(t, "Lead guide", moved.Position)

	team, err = s.ListTeam(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jon", team[0].Name)

	require.NoError(t, s.DeleteTeamMember(ctx, second.ID))
}
