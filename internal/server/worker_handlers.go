package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderlust-tours/wanderlust/internal/models"
)

// AddGalleryImageRequest is a photo uploaded by staff
type AddGalleryImageRequest struct {
	Title       string `json:"title" validate:"max=160"`
	ImageURL    string `json:"image_url" binding:"required" validate:"required,url"`
	Destination string `json:"destination" validate:"max=120"`
}

// WorkerDashboardResponse is the staff dashboard payload
type WorkerDashboardResponse struct {
	User                string `json:"user"`
	PendingTestimonials int    `json:"pending_testimonials"`
	GalleryImages       int    `json:"gallery_images"`
}

// @Summary Worker dashboard
// @Description Moderation queue summary (staff only)
// @Tags worker
// @Produce json
// @Success 200 {object} WorkerDashboardResponse
// @Router /worker/dashboard [get]
func (s *Server) workerDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := s.catalog.ListTestimonials(ctx, false)
	if err != nil {
		s.handleServiceError(c, err, "Failed to load dashboard")
		return
	}
	images, err := s.catalog.ListGallery(ctx)
	if err != nil {
		s.handleServiceError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, WorkerDashboardResponse{
		User:                GetSession(c).DisplayName,
		PendingTestimonials: len(pending),
		GalleryImages:       len(images),
	})
}

// @Summary Pending testimonials
// @Tags worker
// @Produce json
// @Success 200 {array} models.Testimonial
// @Router /worker/api/testimonials [get]
func (s *Server) listPendingTestimonials(c *gin.Context) {
	testimonials, err := s.catalog.ListTestimonials(c.Request.Context(), false)
	if err != nil {
		s.handleServiceError(c, err, "Failed to list testimonials")
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

// @Summary Approve testimonial
// @Tags worker
// @Param id path int true "Testimonial ID"
// @Success 200 {object} models.Testimonial
// @Router /worker/api/testimonials/{id}/approve [post]
func (s *Server) approveTestimonial(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	testimonial, err := s.catalog.ApproveTestimonial(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err, "Failed to approve testimonial")
		return
	}
	c.JSON(http.StatusOK, testimonial)
}

// @Router /worker/api/testimonials/{id} [delete]
func (s *Server) deleteTestimonial(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteTestimonial(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, err, "Failed to delete testimonial")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add gallery image
// @Tags worker
// @Accept json
// @Produce json
// @Param body body AddGalleryImageRequest true "Image"
// @Success 201 {object} models.GalleryImage
// @Router /worker/api/gallery [post]
func (s *Server) addGalleryImage(c *gin.Context) {
	var req AddGalleryImageRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	image := &models.GalleryImage{
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Destination: req.Destination,
		UploadedBy:  GetSession(c).DisplayName,
	}
	if err := s.catalog.AddGalleryImage(c.Request.Context(), image); err != nil {
		s.handleServiceError(c, err, "Failed to add gallery image")
		return
	}
	c.JSON(http.StatusCreated, image)
}
