package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

const sampleContent = `
destinations:
  - name: Iceland
    slug: iceland
    country: IS
    featured: true
    tours:
      - title: Golden Circle
        slug: golden-circle
        price: 99
        duration_days: 1
        rating: 4.7
      - title: Ring Road
        slug: ring-road
        price: 1450
        duration_days: 8
  - name: Morocco
    slug: morocco
    tours:
      - title: Sahara nights
        slug: sahara-nights
        price: 380
gallery:
  - title: Aurora
    url: https://img.example.com/aurora.jpg
    destination: Iceland
testimonials:
  - author: Lea
    quote: Best trip of my life
team:
  - name: Ida
    position: Founder
  - name: Jon
    position: Guide
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleContent))
	require.NoError(t, err)
	require.Len(t, c.Destinations, 2)
	assert.Len(t, c.Destinations[0].Tours, 2)
	assert.Equal(t, "https://img.example.com/aurora.jpg", c.Gallery[0].URL)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown field":   "destinations:\n  - name: X\n    slug: x\n    colour: red\n",
		"missing slug":    "destinations:\n  - name: X\n",
		"tour without id": "destinations:\n  - name: X\n    slug: x\n    tours:\n      - price: 3\n",
		"not yaml":        "destinations: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{URL: database.MemoryURL}, zerolog.Nop())
	require.NoError(t, err)
	defer database.Close(db)

	c, err := Parse(strings.NewReader(sampleContent))
	require.NoError(t, err)

	applied, err := Apply(ctx, db, c, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, applied)

	var tours []models.Tour
	require.NoError(t, db.Order("id").Find(&tours).Error)
	require.Len(t, tours, 3)
	assert.Equal(t, 1, tours[2].DurationDays, "missing duration defaults to one day")

	var approved int64
	require.NoError(t, db.Model(&models.Testimonial{}).Where("approved = ?", true).Count(&approved).Error)
	assert.Equal(t, int64(1), approved)

	// a second run leaves existing content alone
	applied, err = Apply(ctx, db, c, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, applied)

	var destinations int64
	require.NoError(t, db.Model(&models.Destination{}).Count(&destinations).Error)
	assert.Equal(t, int64(2), destinations)
}
