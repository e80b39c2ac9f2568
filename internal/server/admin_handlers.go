package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/wanderlust-tours/wanderlust/internal/models"
	"github.com/wanderlust-tours/wanderlust/internal/stats"
	"github.com/wanderlust-tours/wanderlust/internal/tasks"
)

// DashboardResponse is the admin dashboard payload
type DashboardResponse struct {
	User  string                    `json:"user"`
	Stats *models.DashboardSnapshot `json:"stats"`
}

// @Summary Admin dashboard
// @Description Latest content and account roll-up (admin only)
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardResponse
// @Router /admin/dashboard [get]
func (s *Server) adminDashboard(c *gin.Context) {
	snap, err := stats.Latest(c.Request.Context(), s.db)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load dashboard stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		User:  GetSession(c).DisplayName,
		Stats: snap,
	})
}

// @Summary Refresh dashboard stats
// @Description Queues a stats roll-up, or computes it inline when no worker queue is configured
// @Tags admin
// @Produce json
// @Success 200 {object} models.DashboardSnapshot
// @Success 202 {object} map[string]interface{}
// @Router /admin/api/stats/refresh [post]
func (s *Server) refreshStats(c *gin.Context) {
	session := GetSession(c)

	if s.enqueuer == nil {
		snap, err := stats.Refresh(c.Request.Context(), s.db)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to refresh dashboard stats")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh stats"})
			return
		}
		c.JSON(http.StatusOK, snap)
		return
	}

	task, err := tasks.NewStatsRollupTask(session.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create stats task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue stats refresh"})
		return
	}

	info, err := s.enqueuer.Enqueue(task, asynq.Queue("low"), asynq.Unique(time.Minute))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		c.JSON(http.StatusAccepted, gin.H{"status": "already queued"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to enqueue stats task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue stats refresh"})
		return
	}

	s.logger.Info().
		Str("task_id", info.ID).
		Str("requested_by", session.UserID).
		Msg("Stats refresh queued")

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": info.ID})
}
