package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

const defaultListLimit = 20

func limitParam(c *gin.Context) int64 {
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultListLimit
}

func (s *Server) dashboardStats(c *gin.Context) {
	stats, err := s.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) listSales(c *gin.Context) {
	rows, err := s.dashboard.RecentSales(c.Request.Context(), limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) listTickets(c *gin.Context) {
	rows, err := s.dashboard.RecentTickets(c.Request.Context(), limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) listReadings(c *gin.Context) {
	rows, err := s.readings.ListRecent(c.Request.Context(), limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) updateTicketStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := domain.TicketStatus(payload.Status)
	switch status {
	case domain.TicketIssued, domain.TicketPrinted, domain.TicketSent:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ticket status"})
		return
	}
	if err := s.tickets.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
