package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderlust-tours/wanderlust/internal/access"
)

// @Summary Health check
// @Description Reports service health, version and whether first-run setup is done
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "version": s.version})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
		"setup":   s.provider.Ready(),
	})
}

// loginEntry serves the admin and worker login pages. An already signed in
// user with the right role is sent on to their dashboard.
func (s *Server) loginEntry(kind string) gin.HandlerFunc {
	dashboard := "/" + kind + "/dashboard"
	want := access.RoleAdmin
	if kind == "worker" {
		want = access.RoleStaff
	}

	return func(c *gin.Context) {
		session := GetSession(c)
		if session.Status == access.StatusAuthenticated && (session.Role == want || session.Role == access.RoleNone) {
			c.Redirect(http.StatusFound, dashboard)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"page":    kind + "_login",
			"login":   "/api/auth/login",
			"session": session,
		})
	}
}
