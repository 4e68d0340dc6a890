package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/api"
	"github.com/Reathyze20/akcion/internal/api/handlers"
	"github.com/Reathyze20/akcion/internal/external/news"
	"github.com/Reathyze20/akcion/internal/scheduler"
	"github.com/Reathyze20/akcion/internal/scheduler/jobs"
	"github.com/Reathyze20/akcion/pkg/httputil"
	"github.com/Reathyze20/akcion/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 판정/머지/레짐/알림 엔드포인트 제공
- 웹소켓 알림 스트림 제공
- 백그라운드 잡 스케줄러 구동 (옵션)

Endpoints:
  GET  /health                          - Health check
  POST /api/verdicts/{ticker}/evaluate  - 게이트키퍼 판정
  POST /api/theses/{ticker}/merge       - 지식 머지
  GET  /api/regime                      - 현재 레짐
  GET  /api/alerts                      - 미확인 알림
  GET  /ws/alerts                       - 실시간 알림 스트림

Example:
  go run ./cmd/akcion api
  go run ./cmd/akcion api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Akcion API Server ===")

	// 1. Bootstrap with the websocket hub attached as an alert sink
	a, cleanup, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer cleanup()

	log := a.log
	hub := a.hub

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// 2. Create handlers
	verdictHandler := handlers.NewVerdictHandler(a.service, log)
	thesisHandler := handlers.NewThesisHandler(a.service, log)
	regimeHandler := handlers.NewRegimeHandler(a.service, log)
	lineHandler := handlers.NewPriceLineHandler(a.service, log)
	alertHandler := handlers.NewAlertHandler(a.service, log)

	// 3. Create router and server
	router := api.NewRouter(verdictHandler, thesisHandler, regimeHandler, lineHandler, alertHandler, hub, log)
	server := api.New(a.cfg, log, router)

	// 4. Start background jobs
	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched = scheduler.New(log)

		if a.cfg.News.Enabled {
			httpClient := httputil.New(log, 30*time.Second)
			limiter := redis.NewRateLimiter(a.rdb, "akcion")
			scraper := news.NewScraper(a.cfg.News, httpClient, limiter, log)
			pollJob := jobs.NewNewsPollJob(a.thesisRepo, scraper, a.service, log)
			if err := sched.Register(a.cfg.News.PollSchedule, pollJob); err != nil {
				return fmt.Errorf("register news poll job: %w", err)
			}
		}

		staleJob := jobs.NewStaleScanJob(a.thesisRepo, a.thesisRepo, log)
		if err := sched.Register(a.cfg.Scheduler.DriftScanSchedule, staleJob); err != nil {
			return fmt.Errorf("register stale scan job: %w", err)
		}

		sched.Start()
		defer sched.Stop()
	}

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
