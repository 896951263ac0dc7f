package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
)

func (s *Server) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Country Currency & Exchange API. See /countries"})
}

func (s *Server) ListCountries(c *gin.Context) {
	var query struct {
		Region   string `form:"region"`
		Currency string `form:"currency"`
		Sort     string `form:"sort"`
		Page     int    `form:"page,default=1"`
		Limit    int    `form:"limit,default=500"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, err)
		return
	}

	countries, err := s.countrySvc.List(c.Request.Context(), countrydomain.ListRequest{
		Region:   query.Region,
		Currency: query.Currency,
		Sort:     query.Sort,
		Page:     query.Page,
		Limit:    query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, countries)
}

func (s *Server) GetCountryByName(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	record, err := s.countrySvc.GetByName(c.Request.Context(), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) DeleteCountryByName(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	if err := s.countrySvc.DeleteByName(c.Request.Context(), name); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Country deleted"})
}

func (s *Server) GetStatus(c *gin.Context) {
	status, err := s.countrySvc.Status(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) ServeSummaryImage(c *gin.Context) {
	path := s.cfg.SummaryImagePath()
	if _, err := os.Stat(path); err != nil {
		AbortWithError(c, ErrImageNotFound)
		return
	}

	c.Header("Content-Type", "image/png")
	c.File(path)
}
