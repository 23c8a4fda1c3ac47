package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

func (s *Server) pendingReading(c *gin.Context) {
	reading, ok := s.session.Pending()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"pending": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": reading})
}

func (s *Server) readyReadings(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Ready())
}

func (s *Server) cartState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": s.session.Items(),
		"total": s.session.Total(),
	})
}

func (s *Server) associate(c *gin.Context) {
	var payload struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.session.Touch()
	item, err := s.session.AssociatePending(c.Request.Context(), payload.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) addManualItem(c *gin.Context) {
	var payload struct {
		ProductID string  `json:"product_id" binding:"required"`
		Quantity  float64 `json:"quantity"`
		Unit      string  `json:"unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	unit, ok := domain.ParseUnit(payload.Unit)
	if !ok {
		respondError(c, domain.ErrUnitMismatch)
		return
	}
	s.session.Touch()
	item, err := s.session.AddManual(payload.ProductID, payload.Quantity, unit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) addReadyItem(c *gin.Context) {
	var payload struct {
		ReadingID string `json:"reading_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.session.Touch()
	item, err := s.session.AddReady(payload.ReadingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) removeItem(c *gin.Context) {
	if err := s.session.RemoveItem(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) selectClient(c *gin.Context) {
	var payload struct {
		ClientID string `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.session.SelectClient(payload.ClientID)
	c.Status(http.StatusNoContent)
}

func (s *Server) selectPayment(c *gin.Context) {
	var payload struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.session.SelectPayment(payload.Method)
	c.Status(http.StatusNoContent)
}

func (s *Server) commitSale(c *gin.Context) {
	res, err := s.session.Commit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sale":     res.Sale,
		"ticket":   res.Ticket,
		"warnings": res.Warnings,
	})
}
