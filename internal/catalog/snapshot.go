package catalog

import (
	"github.com/wanderlust-tours/wanderlust/internal/models"
	"github.com/wanderlust-tours/wanderlust/internal/wishlist"
)

// TourSnapshot copies the display fields of a tour into a wishlist entry
func TourSnapshot(t *models.Tour) wishlist.Tour {
	snap := wishlist.Tour{
		ID:           int(t.ID),
		Title:        t.Title,
		Image:        t.ImageURL,
		Price:        t.Price,
		DurationDays: t.DurationDays,
		Rating:       t.Rating,
	}
	if t.Destination != nil {
		snap.Location = t.Destination.Name
	}
	return snap
}

// DestinationSnapshot copies the display fields of a destination into a
// wishlist entry
func DestinationSnapshot(d *models.Destination) wishlist.Destination {
	return wishlist.Destination{
		ID:          int(d.ID),
		Name:        d.Name,
		Country:     d.Country,
		Image:       d.ImageURL,
		Description: d.Description,
	}
}
