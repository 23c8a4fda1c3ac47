// Package services is the composition root: every collaborator is built
// here and handed down explicitly, never reached through a package-level
// singleton.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/assembly"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/assoc"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/commit"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/queries"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/reconcile"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/repo"
	"github.com/light-bringer/deli-pos-service/internal/feed"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
	httptransport "github.com/light-bringer/deli-pos-service/internal/transport/http"
)

// Config selects the store, the feed endpoint and the poll behavior.
type Config struct {
	SpannerDB  string
	FeedURL    string // empty disables push, polling still runs
	LogLevel   string
	ClientOpts []option.ClientOption
}

// ServiceOptions holds all application dependencies.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Reconciler    *reconcile.Reconciler
	Session       *assembly.Session
	HTTPServer    *httptransport.Server
	Log           *logrus.Logger
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg Config, log *logrus.Logger) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB, cfg.ClientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	clk := clock.NewRealClock()

	products := repo.NewProductRepo(spannerClient)
	categories := repo.NewCategoryRepo(spannerClient)
	clients := repo.NewClientRepo(spannerClient)
	readings := repo.NewReadingRepo(spannerClient)
	sales := repo.NewSaleRepo(spannerClient)
	tickets := repo.NewTicketRepo(spannerClient)

	cache := catalog.NewCache(products, clients, log)
	if err := cache.Refresh(ctx); err != nil {
		spannerClient.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var readingFeed contracts.ReadingFeed
	if cfg.FeedURL != "" {
		readingFeed = feed.NewReadingsFeed(feed.NewClient(cfg.FeedURL, log), log)
	}

	c := cart.New()
	reconciler := reconcile.New(readings, readingFeed, log)
	engine := assoc.NewEngine(cache, readings, c, log)
	committer := commit.NewCommitter(clients, sales, products, tickets, readings, cache, clk, log)
	session := assembly.NewSession(c, engine, reconciler, committer, cache, clk, log)
	dashboard := queries.NewDashboard(products, sales, tickets, clk)

	httpServer := httptransport.NewServer(
		products, categories, clients, readings, tickets, dashboard, session, log,
	)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		Reconciler:    reconciler,
		Session:       session,
		HTTPServer:    httpServer,
		Log:           log,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
