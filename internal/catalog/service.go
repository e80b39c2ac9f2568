// Package catalog manages the public website content: destinations, tours,
// gallery images, testimonials and team members.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/models"
)

// ErrNotFound is returned when the requested record does not exist
var ErrNotFound = errors.New("not found")

type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "catalog_service").Logger(),
	}
}

// DestinationInput holds the editable fields of a destination
type DestinationInput struct {
	Name        string `json:"name" binding:"required" validate:"required,max=120"`
	Slug        string `json:"slug" binding:"required" validate:"required,max=120,slug"`
	Country     string `json:"country" validate:"max=80"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Featured    bool   `json:"featured"`
}

func (in DestinationInput) apply(d *models.Destination) {
	d.Name = in.Name
	d.Slug = in.Slug
	d.Country = in.Country
	d.Description = in.Description
	d.ImageURL = in.ImageURL
	d.Featured = in.Featured
}

// TourInput holds the editable fields of a tour
type TourInput struct {
	DestinationID uint    `json:"destination_id" binding:"required" validate:"required"`
	Title         string  `json:"title" binding:"required" validate:"required,max=160"`
	Slug          string  `json:"slug" binding:"required" validate:"required,max=160,slug"`
	Summary       string  `json:"summary"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
	Price         float64 `json:"price" validate:"gte=0"`
	DurationDays  int     `json:"duration_days" validate:"gte=1"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
}

func (in TourInput) apply(t *models.Tour) {
	t.DestinationID = in.DestinationID
	t.Title = in.Title
	t.Slug = in.Slug
	t.Summary = in.Summary
	t.ImageURL = in.ImageURL
	t.Price = in.Price
	t.DurationDays = in.DurationDays
	t.Rating = in.Rating
}

// TeamMemberInput holds the editable fields of a team member
type TeamMemberInput struct {
	Name     string `json:"name" binding:"required" validate:"required,max=120"`
	Position string `json:"position" validate:"max=120"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Sort     int    `json:"sort"`
}

// TourFilter narrows ListTours
type TourFilter struct {
	DestinationID uint
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// ListDestinations returns destinations, featured first
func (s *Service) ListDestinations(ctx context.Context, featuredOnly bool) ([]models.Destination, error) {
	var destinations []models.Destination
	query := s.db.WithContext(ctx).Order("featured DESC, name ASC")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	if err := query.Find(&destinations).Error; err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return destinations, nil
}

// GetDestination returns a destination with its tours
func (s *Service) GetDestination(ctx context.Context, id uint) (*models.Destination, error) {
	var destination models.Destination
	if err := models.FindByIDWithPreload(s.db.WithContext(ctx), id, &destination, "Tours"); err != nil {
		return nil, notFound(err, "destination")
	}
	return &destination, nil
}

func (s *Service) CreateDestination(ctx context.Context, in DestinationInput) (*models.Destination, error) {
	var destination models.Destination
	in.apply(&destination)
	if err := s.db.WithContext(ctx).Create(&destination).Error; err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}
	s.logger.Info().Uint("destination_id", destination.ID).Str("slug", destination.Slug).Msg("Destination created")
	return &destination, nil
}

func (s *Service) UpdateDestination(ctx context.Context, id uint, in DestinationInput) (*models.Destination, error) {
	var destination models.Destination
	if err := models.FindByID(s.db.WithContext(ctx), id, &destination); err != nil {
		return nil, notFound(err, "destination")
	}
	in.apply(&destination)
	if err := s.db.WithContext(ctx).Save(&destination).Error; err != nil {
		return nil, fmt.Errorf("failed to update destination: %w", err)
	}
	return &destination, nil
}

// DeleteDestination removes a destination together with its tours
func (s *Service) DeleteDestination(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("destination_id = ?", id).Delete(&models.Tour{}).Error; err != nil {
			return fmt.Errorf("failed to delete tours: %w", err)
		}
		res := tx.Delete(&models.Destination{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete destination: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("destination: %w", ErrNotFound)
		}
		return nil
	})
}

// ListTours returns tours ordered by rating
func (s *Service) ListTours(ctx context.Context, filter TourFilter) ([]models.Tour, error) {
	var tours []models.Tour
	query := s.db.WithContext(ctx).Preload("Destination").Order("rating DESC, id ASC")
	if filter.DestinationID != 0 {
		query = query.Where("destination_id = ?", filter.DestinationID)
	}
	if err := query.Find(&tours).Error; err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

// GetTour returns a tour with its destination
func (s *Service) GetTour(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := models.FindByIDWithPreload(s.db.WithContext(ctx), id, &tour, "Destination"); err != nil {
		return nil, notFound(err, "tour")
	}
	return &tour, nil
}

func (s *Service) CreateTour(ctx context.Context, in TourInput) (*models.Tour, error) {
	if _, err := s.GetDestination(ctx, in.DestinationID); err != nil {
		return nil, err
	}

	var tour models.Tour
	in.apply(&tour)
	if err := s.db.WithContext(ctx).Create(&tour).Error; err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	s.logger.Info().Uint("tour_id", tour.ID).Str("slug", tour.Slug).Msg("Tour created")
	return &tour, nil
}

func (s *Service) UpdateTour(ctx context.Context, id uint, in TourInput) (*models.Tour, error) {
	var tour models.Tour
	if err := models.FindByID(s.db.WithContext(ctx), id, &tour); err != nil {
		return nil, notFound(err, "tour")
	}
	if in.DestinationID != tour.DestinationID {
		if _, err := s.GetDestination(ctx, in.DestinationID); err != nil {
			return nil, err
		}
	}
	in.apply(&tour)
	if err := s.db.WithContext(ctx).Save(&tour).Error; err != nil {
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}
	return &tour, nil
}

func (s *Service) DeleteTour(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Tour{}, id, "tour")
}

func (s *Service) ListGallery(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	return images, nil
}

func (s *Service) AddGalleryImage(ctx context.Context, image *models.GalleryImage) error {
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to add gallery image: %w", err)
	}
	return nil
}

func (s *Service) DeleteGalleryImage(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.GalleryImage{}, id, "gallery image")
}

// ListTestimonials returns testimonials filtered by approval state
func (s *Service) ListTestimonials(ctx context.Context, approved bool) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	err := s.db.WithContext(ctx).
		Where("approved = ?", approved).
		Order("created_at DESC, id DESC").
		Find(&testimonials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return testimonials, nil
}

// SubmitTestimonial stores a visitor testimonial awaiting approval
func (s *Service) SubmitTestimonial(ctx context.Context, t *models.Testimonial) error {
	t.Approved = false
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to submit testimonial: %w", err)
	}
	return nil
}

func (s *Service) ApproveTestimonial(ctx context.Context, id uint) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := models.FindByID(s.db.WithContext(ctx), id, &t); err != nil {
		return nil, notFound(err, "testimonial")
	}
	if err := s.db.WithContext(ctx).Model(&t).Update("approved", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve testimonial: %w", err)
	}
	t.Approved = true
	s.logger.Info().Uint("testimonial_id", t.ID).Msg("Testimonial approved")
	return &t, nil
}

func (s *Service) DeleteTestimonial(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Testimonial{}, id, "testimonial")
}

func (s *Service) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.WithContext(ctx).Order("sort ASC, id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return members, nil
}

func (s *Service) CreateTeamMember(ctx context.Context, in TeamMemberInput) (*models.TeamMember, error) {
	member := models.TeamMember{
		Name:     in.Name,
		Position: in.Position,
		Bio:      in.Bio,
		ImageURL: in.ImageURL,
		Sort:     in.Sort,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	return &member, nil
}

func (s *Service) UpdateTeamMember(ctx context.Context, id uint, in TeamMemberInput) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := models.FindByID(s.db.WithContext(ctx), id, &member); err != nil {
		return nil, notFound(err, "team member")
	}
	member.Name = in.Name
	member.Position = in.Position
	member.Bio = in.Bio
	member.ImageURL = in.ImageURL
	member.Sort = in.Sort
	if err := s.db.WithContext(ctx).Save(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}
	return &member, nil
}

func (s *Service) DeleteTeamMember(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.TeamMember{}, id, "team member")
}

func (s *Service) deleteByID(ctx context.Context, model any, id uint, what string) error {
	res := s.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
