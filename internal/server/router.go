package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/benvon/todo-everyday/internal/database"
	"github.com/benvon/todo-everyday/internal/handlers"
	"github.com/benvon/todo-everyday/internal/middleware"
	"github.com/benvon/todo-everyday/internal/queue"
	"github.com/benvon/todo-everyday/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options holds the dependencies and settings used to build the router
type Options struct {
	Logger  *zap.Logger
	Service handlers.TodoService
	DB      database.Pinger

	// Optional dependencies; nil disables the matching health check
	Redis     *redis.Client
	Publisher queue.EventPublisher

	FrontendURL    string
	EnableHSTS     bool
	RateLimit      string
	RequestTimeout time.Duration
	MaxRequestSize int64
	Tracing        bool
}

// NewRouter assembles routes and middleware
func NewRouter(opts Options) (*mux.Router, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Middleware registered first wraps outermost
	if opts.Tracing {
		r.Use(telemetry.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(middleware.SecurityConfig{
		EnableHSTS:    opts.EnableHSTS,
		NoStorePrefix: "/api/",
	}))
	r.Use(middleware.CORS(middleware.ParseOrigins(opts.FrontendURL), logger))
	r.Use(middleware.MaxRequestSize(opts.MaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.Audit(logger))
	r.Use(middleware.Logging(logger))

	// Rate limit middleware applies to the API only
	rateLimitMW, err := middleware.RateLimit(opts.Redis, opts.RateLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	// Preflight catch-all. A custom matcher, unlike Methods, leaves 404s for other methods intact.
	r.MatcherFunc(isPreflight).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handlers.NewRootHandler().RegisterRoutes(r)

	healthChecker := handlers.NewHealthChecker(opts.DB)
	if opts.Redis != nil {
		healthChecker.AddCheck("redis", func(ctx context.Context) error {
			return opts.Redis.Ping(ctx).Err()
		})
	}
	if opts.Publisher != nil {
		healthChecker.AddCheck("queue", opts.Publisher.HealthCheck)
	}
	healthChecker.RegisterRoutes(r)

	handlers.NewOpenAPIHandler().RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	todosRouter := apiRouter.PathPrefix("/todos").Subrouter()
	todosRouter.Use(rateLimitMW)
	handlers.NewTodoHandler(opts.Service, logger).RegisterRoutes(todosRouter)

	unmatched, err := unmatchedHandler(todosRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to index todo routes: %w", err)
	}
	todosRouter.NewRoute().Handler(unmatched)

	return r, nil
}

// unmatchedHandler answers requests under a subrouter that no route took.
// Inside a prefixed subrouter mux drops a method mismatch as soon as a later
// route passes the prefix but fails on path, so 405 versus 404 is decided
// here against the registered path templates.
func unmatchedHandler(sub *mux.Router) (http.Handler, error) {
	var paths []*regexp.Regexp
	err := sub.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathRegexp()
		if err != nil {
			return nil
		}
		re, err := regexp.Compile(tpl)
		if err != nil {
			return err
		}
		paths = append(paths, re)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for _, re := range paths {
			if re.MatchString(req.URL.Path) {
				methodNotAllowed(w, req)
				return
			}
		}
		notFound(w, req)
	}), nil
}

func isPreflight(r *http.Request, _ *mux.RouteMatch) bool {
	return r.Method == http.MethodOptions
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed")
}
