// Package http is the gin transport over the sale assembly core and the
// catalog CRUD.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/assembly"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/queries"
)

// Server holds the handler dependencies.
type Server struct {
	products   contracts.ProductRepository
	categories contracts.CategoryRepository
	clients    contracts.ClientRepository
	readings   contracts.ReadingRepository
	tickets    contracts.TicketRepository
	dashboard  *queries.Dashboard
	session    *assembly.Session
	log        *logrus.Logger
}

func NewServer(
	products contracts.ProductRepository,
	categories contracts.CategoryRepository,
	clients contracts.ClientRepository,
	readings contracts.ReadingRepository,
	tickets contracts.TicketRepository,
	dashboard *queries.Dashboard,
	session *assembly.Session,
	log *logrus.Logger,
) *Server {
	return &Server{
		products:   products,
		categories: categories,
		clients:    clients,
		readings:   readings,
		tickets:    tickets,
		dashboard:  dashboard,
		session:    session,
		log:        log,
	}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	api := r.Group("/api/v1")

	api.GET("/products", s.listProducts)
	api.GET("/products/low-stock", s.listLowStock)
	api.POST("/products", s.createProduct)
	api.PUT("/products/:id", s.updateProduct)
	api.DELETE("/products/:id", s.deleteProduct)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.createCategory)
	api.PUT("/categories/:id", s.updateCategory)
	api.DELETE("/categories/:id", s.deleteCategory)

	api.GET("/clients", s.listClients)
	api.POST("/clients", s.createClient)
	api.PUT("/clients/:id", s.updateClient)
	api.DELETE("/clients/:id", s.deleteClient)

	api.GET("/readings", s.listReadings)

	api.GET("/dashboard", s.dashboardStats)
	api.GET("/sales", s.listSales)
	api.GET("/tickets", s.listTickets)
	api.PUT("/tickets/:id/status", s.updateTicketStatus)

	asm := api.Group("/assembly")
	asm.GET("/pending", s.pendingReading)
	asm.GET("/ready", s.readyReadings)
	asm.GET("/cart", s.cartState)
	asm.POST("/associate", s.associate)
	asm.POST("/items", s.addManualItem)
	asm.POST("/items/ready", s.addReadyItem)
	asm.DELETE("/items/:id", s.removeItem)
	asm.PUT("/client", s.selectClient)
	asm.PUT("/payment", s.selectPayment)
	asm.POST("/commit", s.commitSale)

	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}
