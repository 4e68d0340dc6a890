package commands

import (
	"fmt"
	"time"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/drift"
	"github.com/Reathyze20/akcion/internal/external/claude"
	"github.com/Reathyze20/akcion/internal/gatekeeper"
	"github.com/Reathyze20/akcion/internal/notify"
	"github.com/Reathyze20/akcion/internal/pricelines"
	"github.com/Reathyze20/akcion/internal/realtime"
	"github.com/Reathyze20/akcion/internal/regime"
	"github.com/Reathyze20/akcion/internal/sizing"
	"github.com/Reathyze20/akcion/internal/synthesis"
	"github.com/Reathyze20/akcion/pkg/config"
	"github.com/Reathyze20/akcion/pkg/database"
	"github.com/Reathyze20/akcion/pkg/httputil"
	"github.com/Reathyze20/akcion/pkg/logger"
	"github.com/Reathyze20/akcion/pkg/redis"
)

// app holds everything a command needs after bootstrap.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	rdb     *redis.Client
	service *brain.Service

	thesisRepo *synthesis.Repository
	driftMon   *drift.Monitor
	hub        *realtime.Hub
}

// bootstrap wires config, stores and engines into the orchestration
// service. withHub attaches a websocket hub as an alert sink for the
// api command.
// ⭐ SSOT: 의존성 조립은 이 함수에서만
func bootstrap(withHub bool) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, classification cache disabled")
		rdb = &redis.Client{}
	}

	httpClient := httputil.New(log, 30*time.Second)

	// Repositories
	thesisRepo := synthesis.NewRepository(db)
	lineRepo := pricelines.NewRepository(db.Pool)
	verdictRepo := gatekeeper.NewRepository(db.Pool)
	alertRepo := drift.NewRepository(db.Pool)
	regimeRepo := regime.NewRepository(db.Pool)

	// Alert delivery
	var sinks []drift.AlertSink
	var hub *realtime.Hub
	if withHub {
		hub = realtime.NewHub(log)
		sinks = append(sinks, hub)
	}
	if len(cfg.Notify.WebhookURLs) > 0 {
		sinks = append(sinks, notify.NewNotifier(cfg.Notify, httpClient, log))
	}

	// Engines
	driftMon := drift.NewMonitor(alertRepo, thesisRepo, log, sinks...)
	regimeSys := regime.New(regimeRepo, log)

	var classifier synthesis.Classifier
	if cfg.Claude.Enabled && cfg.Claude.APIKey != "" {
		classifier = claude.NewClassifier(cfg.Claude, log)
	}

	mergePolicy := synthesis.Policy{
		BullishBonusEnabled: cfg.Gomes.BullishBonusEnabled,
		AITimeout:           cfg.Claude.Timeout,
	}
	mergeEngine := synthesis.NewEngine(
		thesisRepo, classifier, redis.NewCache(rdb, "akcion"), driftMon, mergePolicy, log,
	)

	gatePolicy := gatekeeper.Policy{
		BlackoutDays:    cfg.Gomes.BlackoutDays,
		OrangeDampening: cfg.Gomes.OrangeDampening,
		MinLossPct:      1.0,
		Sizing: sizing.Policy{
			SafetyMultiplier:    0.5,
			VolatilityThreshold: cfg.Gomes.VolatilityThreshold,
			VolatilityDecay:     cfg.Gomes.VolatilityDecay,
		},
	}
	gate := gatekeeper.New(gatePolicy, log)

	service := brain.New(
		gate, mergeEngine, thesisRepo, lineRepo, verdictRepo,
		alertRepo, driftMon, regimeSys, log,
	)

	a := &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		rdb:        rdb,
		service:    service,
		thesisRepo: thesisRepo,
		driftMon:   driftMon,
		hub:        hub,
	}

	cleanup := func() {
		db.Close()
		_ = rdb.Close()
	}
	return a, cleanup, nil
}
