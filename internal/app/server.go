package app

import (
	"math/rand"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketsim/internal/audit"
	"marketsim/internal/bank"
	"marketsim/internal/config"
	"marketsim/internal/db"
	"marketsim/internal/derivatives"
	"marketsim/internal/event"
	"marketsim/internal/ledger"
	"marketsim/internal/logger"
	"marketsim/internal/market"
	"marketsim/internal/monitoring"
	"marketsim/internal/portfolio"
	"marketsim/internal/security"
	"marketsim/internal/sim"
	"marketsim/internal/ws"
)

type Server struct {
	app    *fiber.App
	engine *sim.Engine
	cfg    *config.Config
}

func NewServer() (*Server, error) {
	cfg := config.Load()
	logger.Init()
	monitoring.Init()

	database, err := db.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	mkt := market.New(rng)
	market.SeedAssets(mkt, cfg.Assets, rng)

	bus := event.NewBus()
	auditService := audit.New(database)
	audit.RegisterConsumers(bus, auditService)

	book := derivatives.NewBook()
	vault := portfolio.New(0, "ABC Bank", decimal.NewFromInt(1_000_000))
	quoter := bank.NewQuoter(cfg.RiskFreeRate, rng)
	desk := bank.NewDesk(quoter, book, vault, mkt, bus, logger.Log)

	journal := ledger.New(database)

	engine := sim.NewEngine(mkt, desk, book, vault, journal, bus, rng,
		time.Now().UTC().Truncate(24*time.Hour), logger.Log)
	engine.Scripted = true

	cash := decimal.NewFromFloat(cfg.InitialCash)
	for uid, name := range map[int]string{1: "Player 1", 2: "Player 2", 3: "Player 3"} {
		engine.AddPlayer(portfolio.New(uid, name, cash))
	}

	hub := ws.NewHub()
	bus.Subscribe(event.EventDayAdvanced, func(payload interface{}) {
		hub.BroadcastJSON(payload)
	})

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Handler))

	accounts := func(uid int) (bank.Account, bool) {
		p, ok := engine.Player(uid)
		if !ok {
			return nil, false
		}
		return p, true
	}

	api := app.Group("/api", security.APIKeyGuard(cfg.APIKey))
	market.RegisterRoutes(api, mkt)
	portfolio.RegisterRoutes(api, engine.Player, mkt)
	bank.RegisterRoutes(api, desk, accounts, engine.Today)
	sim.RegisterRoutes(api, engine)

	return &Server{app: app, engine: engine, cfg: cfg}, nil
}

// Simulate runs the configured number of days before the server starts
// taking requests. DAYS=0 leaves stepping to the HTTP surface.
func (s *Server) Simulate() {
	if s.cfg.Days <= 0 {
		return
	}
	if err := s.engine.Run(s.cfg.Days); err != nil {
		logger.Log.Error("simulation stopped early", zap.Error(err))
	}
}

func (s *Server) Start() error {
	return s.app.Listen(":" + s.cfg.Port)
}
