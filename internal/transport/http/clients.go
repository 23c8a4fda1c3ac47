package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

type categoryPayload struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) listCategories(c *gin.Context) {
	rows, err := s.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) createCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := domain.Category{ID: uuid.NewString(), Name: payload.Name}
	if err := s.categories.Insert(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := domain.Category{ID: c.Param("id"), Name: payload.Name}
	if err := s.categories.Update(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type clientPayload struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	Kind           string `json:"kind"`
}

func (p clientPayload) toDomain(id string) domain.Client {
	return domain.Client{
		ID:             id,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		Kind:           p.Kind,
	}
}

func (s *Server) listClients(c *gin.Context) {
	rows, err := s.clients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) createClient(c *gin.Context) {
	var payload clientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client := payload.toDomain(uuid.NewString())
	if err := s.clients.Insert(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (s *Server) updateClient(c *gin.Context) {
	var payload clientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client := payload.toDomain(c.Param("id"))
	if err := s.clients.Update(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (s *Server) deleteClient(c *gin.Context) {
	if err := s.clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
