// Package stats computes the content and account roll-ups shown on the
// dashboards.
package stats

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/access"
	"github.com/wanderlust-tours/wanderlust/internal/models"
	"github.com/wanderlust-tours/wanderlust/internal/wishlist"
)

// Compute counts the current content and accounts. The snapshot is not saved.
func Compute(ctx context.Context, db *gorm.DB) (*models.DashboardSnapshot, error) {
	db = db.WithContext(ctx)
	snap := &models.DashboardSnapshot{}

	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"tours", db.Model(&models.Tour{}), &snap.Tours},
		{"destinations", db.Model(&models.Destination{}), &snap.Destinations},
		{"gallery images", db.Model(&models.GalleryImage{}), &snap.GalleryImages},
		{"approved testimonials", db.Model(&models.Testimonial{}).Where("approved = ?", true), &snap.ApprovedTestimonials},
		{"pending testimonials", db.Model(&models.Testimonial{}).Where("approved = ?", false), &snap.PendingTestimonials},
		{"staff users", db.Model(&models.User{}).Where("role = ?", string(access.RoleStaff)), &snap.StaffUsers},
		{"admin users", db.Model(&models.User{}).Where("role = ?", string(access.RoleAdmin)), &snap.AdminUsers},
		{"wishlists", db.Model(&models.KVEntry{}).Where("entry_key LIKE ?", "%:"+wishlist.TourKey), &snap.Wishlists},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}
	return snap, nil
}

// Refresh computes a snapshot and stores it
func Refresh(ctx context.Context, db *gorm.DB) (*models.DashboardSnapshot, error) {
	snap, err := Compute(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(snap).Error; err != nil {
		return nil, fmt.Errorf("failed to save dashboard snapshot: %w", err)
	}
	return snap, nil
}

// Latest returns the newest stored snapshot, or computes (and stores) one if
// none exists yet
func Latest(ctx context.Context, db *gorm.DB) (*models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	err := db.WithContext(ctx).Order("created_at DESC, id DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Refresh(ctx, db)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard snapshot: %w", err)
	}
	return &snap, nil
}
