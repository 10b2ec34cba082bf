package http

import (
	"log/slog"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "userhub"

// Deps are the collaborators built once in main and shared by every request.
type Deps struct {
	Store  store.Store
	Tokens *auth.Manager
	Hasher security.Hasher

	// optional
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.ConfigureValidator(); err != nil {
		log.Warn("validator not configured", "err", err)
	}

	r := gin.New()

	// "/register/" is served like "/register" instead of answering 301/307
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(serviceName))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.Store.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// wire up handlers
	results := cache.New[handlers.SearchResult](cfg.SearchCacheTTL)

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Store, deps.Tokens, deps.Hasher, deps.Prom, log)
	profileHandler := handlers.NewProfileHandler(deps.Store, deps.Store, deps.Tokens, results, log)
	searchHandler := handlers.NewSearchHandler(deps.Store, results, log)
	authMW := middlewares.NewAuthMiddleware(deps.Tokens)

	handle(r.GET, "/search/:query", searchHandler.Search)
	handle(r.POST, "/auth", authHandler.Authenticate)
	handle(r.POST, "/register", authHandler.Register)
	handle(r.GET, "/profile/:username", authMW.RequireQueryToken("token"), profileHandler.GetProfile)
	handle(r.GET, "/check/:token", authHandler.CheckToken)
	handle(r.POST, "/profile", profileHandler.SetProfile)

	// anything else, any method
	r.NoRoute(handlers.BadRequest)

	return r
}

// handle registers path with and without a trailing slash.
func handle(register func(string, ...gin.HandlerFunc) gin.IRoutes, path string, h ...gin.HandlerFunc) {
	register(path, h...)
	register(path+"/", h...)
}
