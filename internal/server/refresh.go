package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) RefreshCountries(c *gin.Context) {
	result, err := s.refreshSvc.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Refresh successful",
		"total_countries":   result.TotalCountries,
		"last_refreshed_at": result.LastRefreshedAt,
		"processed":         result.Processed,
	})
}

func (s *Server) ListRefreshRuns(c *gin.Context) {
	var query struct {
		Limit int `form:"limit,default=20"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, err)
		return
	}

	runs, err := s.refreshSvc.RecentRuns(c.Request.Context(), query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, runs)
}
