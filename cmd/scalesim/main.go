// Command scalesim emulates the counter scale for local development: it
// drifts a weight around a target, periodically emits stable readings,
// writes them to the store when one is configured, and broadcasts each
// insert over a websocket feed the server can subscribe to.
package main

import (
	"context"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/repo"
	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
)

// sampleProduct is what the simulated operator puts on the scale.
type sampleProduct struct {
	Code  string  `json:"codigo"`
	Name  string  `json:"nombre"`
	Price float64 `json:"precio_kg"`
}

var sampleProducts = []sampleProduct{
	{Code: "JAM001", Name: "Jamón Crudo", Price: 4500},
	{Code: "SAL002", Name: "Salame Milano", Price: 3800},
	{Code: "QUE003", Name: "Queso Provoleta", Price: 5200},
	{Code: "MOR004", Name: "Mortadela", Price: 2400},
}

const (
	tickInterval   = 2 * time.Second
	settleTicks    = 3   // ticks until the weight reads stable
	maxWeightKg    = 3.0 // deli portions, not sacks
	driftAmplitude = 0.015
)

func main() {
	_ = godotenv.Load()
	log := logging.New(os.Getenv("LOG_LEVEL"))

	port := os.Getenv("SCALESIM_PORT")
	if port == "" {
		port = "3001"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var readings contracts.ReadingRepository
	if db := os.Getenv("SPANNER_DATABASE"); db != "" {
		client, err := spanner.NewClient(ctx, db)
		if err != nil {
			log.WithError(err).Fatal("spanner client")
		}
		defer client.Close()
		readings = repo.NewReadingRepo(client)
		log.WithField("database", db).Info("persisting readings")
	} else {
		log.Info("SPANNER_DATABASE unset, broadcast only")
	}

	sim := newSimulator(readings, log)
	go sim.run(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/lectura", sim.lectura)
	r.GET("/status", sim.status)
	r.GET("/ws", sim.serveWS)

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("port", port).Info("scale simulator listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server")
	}
}

type simulator struct {
	readings contracts.ReadingRepository
	log      *logrus.Logger
	started  time.Time

	mu      sync.Mutex
	product sampleProduct
	target  float64
	weight  float64
	ticks   int
	emitted int64

	subsMu sync.Mutex
	subs   map[*websocket.Conn]struct{}
}

func newSimulator(readings contracts.ReadingRepository, log *logrus.Logger) *simulator {
	s := &simulator{
		readings: readings,
		log:      log,
		started:  time.Now(),
		subs:     map[*websocket.Conn]struct{}{},
	}
	s.nextItem()
	return s
}

// nextItem picks a product and a fresh target weight.
func (s *simulator) nextItem() {
	s.product = sampleProducts[rand.IntN(len(sampleProducts))]
	s.target = 0.1 + rand.Float64()*(maxWeightKg-0.1)
	s.weight = s.target * (0.5 + rand.Float64()*0.3)
	s.ticks = 0
}

func (s *simulator) run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *simulator) tick(ctx context.Context) {
	s.mu.Lock()
	s.ticks++
	// Approach the target with a little noise, like a settling pan.
	s.weight += (s.target-s.weight)*0.6 + (rand.Float64()-0.5)*driftAmplitude
	stable := s.ticks >= settleTicks
	weight := s.weight
	s.mu.Unlock()

	if !stable {
		return
	}

	reading := domain.Reading{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Weight:    round3(weight),
	}
	if s.readings != nil {
		if err := s.readings.Insert(ctx, reading); err != nil {
			s.log.WithError(err).Warn("reading insert failed")
		}
	}
	s.broadcast(reading)

	s.mu.Lock()
	s.emitted++
	s.nextItem()
	s.mu.Unlock()
}

func round3(f float64) float64 {
	return float64(int64(f*1000+0.5)) / 1000
}

func (s *simulator) lectura(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"peso":     round3(s.weight),
		"estable":  s.ticks >= settleTicks,
		"producto": s.product,
	})
}

func (s *simulator) status(c *gin.Context) {
	s.mu.Lock()
	emitted := s.emitted
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"uptime_s":  int64(time.Since(s.started).Seconds()),
		"lecturas":  emitted,
		"intervalo": tickInterval.String(),
	})
}

var upgrader = websocket.Upgrader{
	// The simulator is a dev tool; any origin may subscribe.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *simulator) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// Consume the subscribe message, then keep the connection until the
	// peer goes away.
	var sub struct {
		Action   string `json:"action"`
		Relation string `json:"relation"`
	}
	if err := conn.ReadJSON(&sub); err != nil || sub.Action != "subscribe" {
		conn.Close()
		return
	}

	s.subsMu.Lock()
	s.subs[conn] = struct{}{}
	s.subsMu.Unlock()
	s.log.Info("feed subscriber connected")

	go func() {
		defer func() {
			s.subsMu.Lock()
			delete(s.subs, conn)
			s.subsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast pushes one insert event to every subscriber.
func (s *simulator) broadcast(r domain.Reading) {
	event := gin.H{
		"type":     "INSERT",
		"relation": "readings",
		"row": gin.H{
			"reading_id": r.ID,
			"read_at":    r.Timestamp,
			"weight":     r.Weight,
			"consumed":   false,
		},
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for conn := range s.subs {
		if err := conn.WriteJSON(event); err != nil {
			delete(s.subs, conn)
			conn.Close()
		}
	}
}
