package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/RewardEngine_Go/internal/activity"
	"github.com/osse101/RewardEngine_Go/internal/badge"
	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/handler"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/pack"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
	"github.com/osse101/RewardEngine_Go/internal/streak"
	"github.com/osse101/RewardEngine_Go/internal/user"
)

// Options configures the HTTP layer
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Services are the reward engine operations exposed over HTTP
type Services struct {
	Users      user.Service
	Diamonds   diamond.Service
	Ledger     ledger.Service
	Packs      pack.Service
	Rarity     rarity.Service
	Streaks    streak.Service
	Activities activity.Service
	Badges     badge.Service
	Events     eventlog.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, db handler.Pinger, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, db, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the middleware stack and every route
func NewRouter(opts Options, db handler.Pinger, svc Services) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()
	limiter := NewClientRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(RateLimitMiddleware(limiter, opts.TrustedProxies))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(db))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", handler.HandleRegisterUser(svc.Users))
			r.Get("/{id}", handler.HandleGetUser(svc.Users))
			r.Get("/{id}/events", handler.HandleUserEvents(svc.Events))
		})

		r.Route("/diamonds", func(r chi.Router) {
			r.Get("/balance", handler.HandleGetBalance(svc.Diamonds))
			r.Post("/earn", handler.HandleEarn(svc.Diamonds))
			r.Post("/spend", handler.HandleSpend(svc.Diamonds))
			r.Get("/transactions", handler.HandleTransactions(svc.Ledger))
			r.Get("/audit", handler.HandleAudit(svc.Ledger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/diamonds/balance", handler.HandleSetBalance(svc.Diamonds))
		})

		r.Route("/packs", func(r chi.Router) {
			r.Post("/open", handler.HandleOpenPack(svc.Packs))
			r.Get("/rates", handler.HandlePackRates(svc.Packs, svc.Rarity))
		})

		r.Route("/streaks", func(r chi.Router) {
			r.Post("/activity", handler.HandleRecordStreakActivity(svc.Streaks))
			r.Get("/status", handler.HandleStreakStatus(svc.Streaks))
		})

		r.Route("/daily-login", func(r chi.Router) {
			r.Post("/claim", handler.HandleClaimDailyLogin(svc.Streaks))
			r.Get("/status", handler.HandleDailyLoginStatus(svc.Streaks))
		})

		r.Post("/activities/complete", handler.HandleCompleteActivity(svc.Activities))

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", handler.HandleListBadges(svc.Badges))
			r.Post("/evaluate", handler.HandleEvaluateBadges(svc.Badges))
		})
	})

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
