// Package catalog holds the in-memory snapshot of products and clients used
// during a sale, plus the scored free-text product lookup serving association.
package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// Cache is a read-mostly snapshot of the catalog. It is refreshed only
// between sales; during a sale attempt every lookup sees the same snapshot.
type Cache struct {
	products contracts.ProductRepository
	clients  contracts.ClientRepository
	log      *logrus.Logger

	mu           sync.RWMutex
	productRows  []domain.Product
	clientRows   []domain.Client
	productsByID map[string]domain.Product
}

func NewCache(products contracts.ProductRepository, clients contracts.ClientRepository, log *logrus.Logger) *Cache {
	return &Cache{
		products:     products,
		clients:      clients,
		log:          log,
		productsByID: map[string]domain.Product{},
	}
}

// Refresh reloads both relations. On error the previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	productRows, err := c.products.List(ctx)
	if err != nil {
		return err
	}
	clientRows, err := c.clients.List(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]domain.Product, len(productRows))
	for _, p := range productRows {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.productRows = productRows
	c.clientRows = clientRows
	c.productsByID = byID
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"products": len(productRows),
		"clients":  len(clientRows),
	}).Debug("catalog snapshot refreshed")
	return nil
}

// Products returns the snapshot in catalog order.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, len(c.productRows))
	copy(out, c.productRows)
	return out
}

// Clients returns the client snapshot.
func (c *Cache) Clients() []domain.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Client, len(c.clientRows))
	copy(out, c.clientRows)
	return out
}

// Product looks a product up by id in the snapshot.
func (c *Cache) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.productsByID[id]
	return p, ok
}

// Match resolves a free-text query against the snapshot.
func (c *Cache) Match(query string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return bestMatch(c.productRows, query)
}
