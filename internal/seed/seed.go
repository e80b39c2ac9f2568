// Package seed loads initial website content from a YAML document into an
// empty database.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/models"
)

// Content is the seed document
type Content struct {
	Destinations []Destination `yaml:"destinations"`
	Gallery      []Image       `yaml:"gallery"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Team         []TeamMember  `yaml:"team"`
}

type Destination struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Country     string `yaml:"country"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Featured    bool   `yaml:"featured"`
	Tours       []Tour `yaml:"tours"`
}

type Tour struct {
	Title    string  `yaml:"title"`
	Slug     string  `yaml:"slug"`
	Summary  string  `yaml:"summary"`
	Image    string  `yaml:"image"`
	Price    float64 `yaml:"price"`
	Duration int     `yaml:"duration_days"`
	Rating   float64 `yaml:"rating"`
}

type Image struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Destination string `yaml:"destination"`
}

type Testimonial struct {
	Author   string `yaml:"author"`
	Location string `yaml:"location"`
	Quote    string `yaml:"quote"`
	Rating   int    `yaml:"rating"`
}

type TeamMember struct {
	Name     string `yaml:"name"`
	Position string `yaml:"position"`
	Bio      string `yaml:"bio"`
	Image    string `yaml:"image"`
}

// Parse decodes a seed document and checks required fields
func Parse(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, d := range c.Destinations {
		if d.Name == "" || d.Slug == "" {
			return nil, fmt.Errorf("destination %d: name and slug are required", i)
		}
		for j, t := range d.Tours {
			if t.Title == "" || t.Slug == "" {
				return nil, fmt.Errorf("destination %s tour %d: title and slug are required", d.Slug, j)
			}
		}
	}
	return &c, nil
}

// LoadFile parses the seed document at path
func LoadFile(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Apply inserts content when no destinations exist yet. It reports whether
// anything was written.
func Apply(ctx context.Context, db *gorm.DB, c *Content, logger zerolog.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Destination{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count destinations: %w", err)
	}
	if count > 0 {
		logger.Info().Int64("destinations", count).Msg("Database already has content - skipping seed")
		return false, nil
	}

	var tours int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range c.Destinations {
			destination := models.Destination{
				Name:        d.Name,
				Slug:        d.Slug,
				Country:     d.Country,
				Description: d.Description,
				ImageURL:    d.Image,
				Featured:    d.Featured,
			}
			for _, t := range d.Tours {
				destination.Tours = append(destination.Tours, models.Tour{
					Title:        t.Title,
					Slug:         t.Slug,
					Summary:      t.Summary,
					ImageURL:     t.Image,
					Price:        t.Price,
					DurationDays: max(t.Duration, 1),
					Rating:       t.Rating,
				})
			}
			if err := tx.Create(&destination).Error; err != nil {
				return fmt.Errorf("failed to seed destination %s: %w", d.Slug, err)
			}
			tours += len(d.Tours)
		}

		for _, img := range c.Gallery {
			if err := tx.Create(&models.GalleryImage{Title: img.Title, ImageURL: img.URL, Destination: img.Destination}).Error; err != nil {
				return fmt.Errorf("failed to seed gallery image: %w", err)
			}
		}

		// Seeded testimonials are curated, so they are published right away
		for _, t := range c.Testimonials {
			rating := t.Rating
			if rating == 0 {
				rating = 5
			}
			if err := tx.Create(&models.Testimonial{
				Author:   t.Author,
				Location: t.Location,
				Quote:    t.Quote,
				Rating:   rating,
				Approved: true,
			}).Error; err != nil {
				return fmt.Errorf("failed to seed testimonial: %w", err)
			}
		}

		for i, m := range c.Team {
			if err := tx.Create(&models.TeamMember{
				Name:     m.Name,
				Position: m.Position,
				Bio:      m.Bio,
				ImageURL: m.Image,
				Sort:     i,
			}).Error; err != nil {
				return fmt.Errorf("failed to seed team member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info().
		Int("destinations", len(c.Destinations)).
		Int("tours", tours).
		Int("gallery", len(c.Gallery)).
		Int("testimonials", len(c.Testimonials)).
		Int("team", len(c.Team)).
		Msg("Seeded website content")
	return true, nil
}
