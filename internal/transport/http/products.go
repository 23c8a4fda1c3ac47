package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

type productPayload struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit" binding:"required"`
	Stock       float64         `json:"stock"`
	MinStock    float64         `json:"min_stock"`
}

func (p productPayload) toDomain(id string) (domain.Product, error) {
	unit, ok := domain.ParseUnit(p.Unit)
	if !ok {
		return domain.Product{}, domain.ErrUnitMismatch
	}
	return domain.Product{
		ID:          id,
		Code:        p.Code,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Price:       p.Price,
		Unit:        unit,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
	}, nil
}

func (s *Server) listProducts(c *gin.Context) {
	rows, err := s.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) listLowStock(c *gin.Context) {
	rows, err := s.products.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) createProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := payload.toDomain(uuid.NewString())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.products.Insert(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := payload.toDomain(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.products.Update(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
