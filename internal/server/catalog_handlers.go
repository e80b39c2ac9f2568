package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanderlust-tours/wanderlust/internal/catalog"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

// SubmitTestimonialRequest is a visitor review awaiting moderation
type SubmitTestimonialRequest struct {
	Author   string `json:"author" binding:"required" validate:"required,max=120"`
	Location string `json:"location" validate:"max=120"`
	Quote    string `json:"quote" binding:"required" validate:"required,max=2000"`
	Rating   int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// parseID reads the numeric :id path parameter. Ids must fit an int.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 || id > math.MaxInt {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// bindAndValidate decodes the JSON body into req and runs struct validation
func (s *Server) bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return false
	}
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn().Err(err).Msg("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return false
	}
	return true
}

// handleServiceError maps catalog errors to responses
func (s *Server) handleServiceError(c *gin.Context, err error, message string) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error().Err(err).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// @Summary List destinations
// @Tags catalog
// @Produce json
// @Param featured query bool false "Only featured destinations"
// @Success 200 {array} models.Destination
// @Router /api/destinations [get]
func (s *Server) listDestinations(c *gin.Context) {
	featured, _ := strconv.ParseBool(c.Query("featured"))
	destinations, err := s.catalog.ListDestinations(c.Request.Context(), featured)
	if err != nil {
		s.handleServiceError(c, err, "Failed to list destinations")
		return
	}
	c.JSON(http.StatusOK, destinations)
}

// @Summary Get destination
// @Tags catalog
// @Produce json
// @Param id path int true "Destination ID"
// @Success 200 {object} models.Destination
// @Failure 404 {object} map[string]interface{}
// @Router /api/destinations/{id} [get]
func (s *Server) getDestination(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	destination, err := s.catalog.GetDestination(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err, "Failed to get destination")
		return
	}
	c.JSON(http.StatusOK, destination)
}

// @Summary List tours
// @Tags catalog
// @Produce json
// @Param destination_id query int false "Filter by destination"
// @Success 200 {array} models.Tour
// @Router /api/tours [get]
func (s *Server) listTours(c *gin.Context) {
	var filter catalog.TourFilter
	if raw := c.Query("destination_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination_id"})
			return
		}
		filter.DestinationID = uint(id)
	}

	tours, err := s.catalog.ListTours(c.Request.Context(), filter)
	if err != nil {
		s.handleServiceError(c, err, "Failed to list tours")
		return
	}
	c.JSON(http.StatusOK, tours)
}

// @Summary Get tour
// @Tags catalog
// @Produce json
// @Param id path int true "Tour ID"
// @Success 200 {object} models.Tour
// @Failure 404 {object} map[string]interface{}
// @Router /api/tours/{id} [get]
func (s *Server) getTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tour, err := s.catalog.GetTour(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err, "Failed to get tour")
		return
	}
	c.JSON(http.StatusOK, tour)
}

func (s *Server) listGallery(c *gin.Context) {
	images, err := s.catalog.ListGallery(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, err, "Failed to list gallery")
		return
	}
	c.JSON(http.StatusOK, images)
}

// @Summary List published testimonials
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Testimonial
// @Router /api/testimonials [get]
func (s *Server) listTestimonials(c *gin.Context) {
	testimonials, err := s.catalog.ListTestimonials(c.Request.Context(), true)
	if err != nil {
		s.handleServiceError(c, err, "Failed to list testimonials")
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

// @Summary Submit testimonial
// @Description Stores a visitor testimonial; it is published after staff approval
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body SubmitTestimonialRequest true "Testimonial"
// @Success 202 {object} models.Testimonial
// @Router /api/testimonials [post]
func (s *Server) submitTestimonial(c *gin.Context) {
	var req SubmitTestimonialRequest
	if !s.bindAndValidate(c, &req) {
		return
	}
	if req.Rating == 0 {
		req.Rating = 5
	}

	testimonial := &models.Testimonial{
		Author:   req.Author,
		Location: req.Location,
		Quote:    req.Quote,
		Rating:   req.Rating,
	}
	if err := s.catalog.SubmitTestimonial(c.Request.Context(), testimonial); err != nil {
		s.handleServiceError(c, err, "Failed to submit testimonial")
		return
	}
	c.JSON(http.StatusAccepted, testimonial)
}

func (s *Server) listTeam(c *gin.Context) {
	team, err := s.catalog.ListTeam(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, err, "Failed to list team")
		return
	}
	c.JSON(http.StatusOK, team)
}

// @Summary Create tour
// @Tags admin
// @Accept json
// @Produce json
// @Param body body catalog.TourInput true "Tour"
// @Success 201 {object} models.Tour
// @Router /admin/api/tours [post]
func (s *Server) createTour(c *gin.Context) {
	var req catalog.TourInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	tour, err := s.catalog.CreateTour(c.Request.Context(), req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to create tour")
		return
	}
	c.JSON(http.StatusCreated, tour)
}

// @Router /admin/api/tours/{id} [put]
func (s *Server) updateTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req catalog.TourInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	tour, err := s.catalog.UpdateTour(c.Request.Context(), id, req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to update tour")
		return
	}
	c.JSON(http.StatusOK, tour)
}

// @Router /admin/api/tours/{id} [delete]
func (s *Server) deleteTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteTour(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, err, "Failed to delete tour")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create destination
// @Tags admin
// @Accept json
// @Produce json
// @Param body body catalog.DestinationInput true "Destination"
// @Success 201 {object} models.Destination
// @Router /admin/api/destinations [post]
func (s *Server) createDestination(c *gin.Context) {
	var req catalog.DestinationInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	destination, err := s.catalog.CreateDestination(c.Request.Context(), req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to create destination")
		return
	}
	c.JSON(http.StatusCreated, destination)
}

// @Router /admin/api/destinations/{id} [put]
func (s *Server) updateDestination(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req catalog.DestinationInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	destination, err := s.catalog.UpdateDestination(c.Request.Context(), id, req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to update destination")
		return
	}
	c.JSON(http.StatusOK, destination)
}

// @Summary Delete destination
// @Description Deletes a destination and all of its tours
// @Tags admin
// @Router /admin/api/destinations/{id} [delete]
func (s *Server) deleteDestination(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteDestination(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, err, "Failed to delete destination")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createTeamMember(c *gin.Context) {
	var req catalog.TeamMemberInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	member, err := s.catalog.CreateTeamMember(c.Request.Context(), req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) updateTeamMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req catalog.TeamMemberInput
	if !s.bindAndValidate(c, &req) {
		return
	}
	member, err := s.catalog.UpdateTeamMember(c.Request.Context(), id, req)
	if err != nil {
		s.handleServiceError(c, err, "Failed to update team member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) deleteTeamMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteTeamMember(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, err, "Failed to delete team member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteGalleryImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteGalleryImage(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, err, "Failed to delete gallery image")
		return
	}
	c.Status(http.StatusNoContent)
}
