package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/moodtracker/internal/excel"
	"github.com/example/moodtracker/pkg/models"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) index(c *gin.Context) {
	status, err := s.service.Status(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"Mood":        status.Mood.String(),
		"Today":       status.Today,
		"EntryExists": status.EntryExists,
	})
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// getMood reports the latest mood as {"<MoodName>": true}
func (s *Server) getMood(c *gin.Context) {
	mood, err := s.service.GetLatestMood(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{mood.String(): true})
}

// setMood records today's mood from the path value 0 or 1
func (s *Server) setMood(c *gin.Context) {
	mood, err := models.ParseMood(c.Param("value"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": false})
		return
	}

	if err := s.service.SetMood(c.Request.Context(), s.service.Today(), mood); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": false})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{mood.String(): true})
}

func (s *Server) history(c *gin.Context) {
	limit, ok := s.limit(c)
	if !ok {
		return
	}
	records, err := s.service.History(c.Request.Context(), limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) stats(c *gin.Context) {
	limit, ok := s.limit(c)
	if !ok {
		return
	}
	stats, err := s.service.Stats(c.Request.Context(), limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) export(c *gin.Context) {
	records, err := s.service.History(c.Request.Context(), s.config.HistoryLimit)
	if err != nil {
		s.internalError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteHistory(&buf, records); err != nil {
		s.internalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="moods.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// limit reads ?limit=N, capped at the configured history limit
func (s *Server) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return s.config.HistoryLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if n > s.config.HistoryLimit {
		n = s.config.HistoryLimit
	}
	return n, true
}

func (s *Server) internalError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
