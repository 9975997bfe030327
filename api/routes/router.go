package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/mechanicshop-backend/api/controllers"
	"github.com/angelmondragon/mechanicshop-backend/api/middleware"
	"github.com/angelmondragon/mechanicshop-backend/internal/auth"
	"github.com/angelmondragon/mechanicshop-backend/internal/customers"
	"github.com/angelmondragon/mechanicshop-backend/internal/inventories"
	"github.com/angelmondragon/mechanicshop-backend/internal/mechanics"
	"github.com/angelmondragon/mechanicshop-backend/internal/tickets"
	"github.com/angelmondragon/mechanicshop-backend/pkg/config"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
	"github.com/angelmondragon/mechanicshop-backend/pkg/metrics"
	"github.com/angelmondragon/mechanicshop-backend/pkg/redis"
)

const (
	policyCustomers   = "customers"
	policyMechanics   = "mechanics"
	policyInventories = "inventories"
)

// NewRouter builds the HTTP surface. A nil redisClient disables rate limiting and
// response caching; a nil registry disables request metrics and /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService auth.Service,
	customerService customers.Service,
	mechanicService mechanics.Service,
	inventoryService inventories.Service,
	ticketManager tickets.Manager,
) http.Handler {
	r := chi.NewRouter()

	// keep the interfaces nil when redis is absent so the middleware can tell
	var (
		rateStore  middleware.RateLimitStore
		cacheStore middleware.CacheStore
	)
	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["database"] = dbP
	}
	if redisClient != nil {
		rateStore = redisClient
		cacheStore = redisClient
		readiness["redis"] = redisClient
	}

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil && cfg.Metrics.Enabled {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	defaultPolicy := middleware.NewRateLimitPolicy("default", cfg.RateLimit.DefaultWindow, cfg.RateLimit.DefaultLimit)
	customerCreatePolicy := middleware.NewRateLimitPolicy("customer-create", cfg.RateLimit.CustomerCreateWindow, cfg.RateLimit.CustomerCreateLimit)
	ticketDeletePolicy := middleware.NewRateLimitPolicy("ticket-delete", cfg.RateLimit.TicketDeleteWindow, cfg.RateLimit.TicketDeleteLimit)

	cacheList := func(name string, includeQuery bool) func(http.Handler) http.Handler {
		return middleware.Cache(middleware.CachePolicy{Name: name, TTL: cfg.Cache.ListTTL, IncludeQuery: includeQuery}, cacheStore, logg)
	}
	customerAuth := middleware.CustomerAuth(authService, logg)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(defaultPolicy, rateStore, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Post("/login", controllers.CustomerLogin(authService, logg))
			r.With(middleware.RateLimit(customerCreatePolicy, rateStore, logg)).Post("/", controllers.CustomerCreate(customerService, logg))
			r.With(cacheList(policyCustomers, true)).Get("/", controllers.CustomerList(customerService, logg))
			r.With(customerAuth).Put("/", controllers.CustomerUpdate(customerService, logg))
			r.With(customerAuth).Delete("/", controllers.CustomerDelete(customerService, logg))
			r.Get("/{customerID}", controllers.CustomerGet(customerService, logg))
		})

		r.Route("/mechanics", func(r chi.Router) {
			r.Post("/", controllers.MechanicCreate(mechanicService, logg))
			r.With(cacheList(policyMechanics, false)).Get("/", controllers.MechanicList(mechanicService, logg))
			r.Get("/popular-mechanic", controllers.MechanicPopular(mechanicService, logg))
			r.Get("/search", controllers.MechanicSearch(mechanicService, logg))
			r.Get("/{mechanicID}", controllers.MechanicGet(mechanicService, logg))
			r.Put("/{mechanicID}", controllers.MechanicUpdate(mechanicService, logg))
			r.Delete("/{mechanicID}", controllers.MechanicDelete(mechanicService, logg))
		})

		r.Route("/inventories", func(r chi.Router) {
			r.Post("/", controllers.InventoryCreate(inventoryService, logg))
			r.With(cacheList(policyInventories, false)).Get("/", controllers.InventoryList(inventoryService, logg))
			r.Get("/{inventoryID}", controllers.InventoryGet(inventoryService, logg))
			r.Put("/{inventoryID}", controllers.InventoryUpdate(inventoryService, logg))
			r.Delete("/{inventoryID}", controllers.InventoryDelete(inventoryService, logg))
		})

		r.Route("/service-tickets", func(r chi.Router) {
			r.Post("/", controllers.TicketCreate(ticketManager, logg))
			r.Post("/with-mechanics", controllers.TicketCreateWithMechanics(ticketManager, logg))
			r.Get("/", controllers.TicketList(ticketManager, logg))
			r.With(customerAuth).Get("/my-tickets", controllers.TicketListMine(ticketManager, logg))

			r.Route("/{ticketID}", func(r chi.Router) {
				r.Get("/", controllers.TicketGet(ticketManager, logg))
				r.Put("/", controllers.TicketEditMechanics(ticketManager, logg))
				r.With(middleware.RateLimit(ticketDeletePolicy, rateStore, logg)).Delete("/", controllers.TicketDelete(ticketManager, logg))
				r.Put("/assign-mechanic/{mechanicID}", controllers.TicketAssignMechanic(ticketManager, logg))
				r.Put("/remove-mechanic/{mechanicID}", controllers.TicketRemoveMechanic(ticketManager, logg))
				r.Delete("/delete-mechanic/{mechanicID}", controllers.TicketDeleteMechanic(ticketManager, logg))
				r.Post("/add_part", controllers.TicketAddPart(ticketManager, logg))
			})
		})
	})

	return r
}
