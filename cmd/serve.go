package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/civicworks/civic-cli/internal/admin"
	"github.com/civicworks/civic-cli/internal/classify"
	"github.com/civicworks/civic-cli/internal/config"
	"github.com/civicworks/civic-cli/internal/feed"
	"github.com/civicworks/civic-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the civic issue HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		classifier, err := initClassifier(cfg.Classifier)
		if err != nil {
			return err
		}

		api := &apiServer{
			store:      st,
			feed:       feed.NewService(st, initResolver(cfg.Geo)),
			classifier: classifier,
			stats:      admin.NewAggregator(st),
			defaultKm:  cfg.Geo.DefaultRadiusKm,
		}
		router := buildRouter(api, cfg.Server)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// apiServer bundles the handler dependencies.
type apiServer struct {
	store      store.Store
	feed       *feed.Service
	classifier *classify.Service
	stats      *admin.Aggregator
	defaultKm  float64
}

func buildRouter(api *apiServer, serverCfg config.ServerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := serverCfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", api.handleHealth)

	r.Route("/issues", func(r chi.Router) {
		r.Post("/", api.handleCreateIssue)
		r.Get("/", api.handleListIssues)
		r.Get("/{id}", api.handleGetIssue)
		r.Patch("/{id}/status", api.handleUpdateStatus)
		r.Post("/{id}/upvote", api.handleUpvote)
		r.Post("/{id}/flag", api.handleFlag)
		r.Delete("/{id}", api.handleDeleteIssue)
	})

	r.Get("/feed", api.handleFeed)
	r.Get("/feed.geojson", api.handleFeedGeoJSON)
	r.Get("/stats", api.handleStats)

	r.Group(func(r chi.Router) {
		if serverCfg.ClassifyRPS > 0 {
			burst := serverCfg.ClassifyBurst
			if burst < 1 {
				burst = 1
			}
			r.Use(throttle(rate.NewLimiter(rate.Limit(serverCfg.ClassifyRPS), burst)))
		}
		r.Post("/classify", api.handleClassify)
	})

	return r
}

// throttle rejects requests beyond the limiter's budget with 429.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
