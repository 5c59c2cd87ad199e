package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"tool-rental/internal/domain/user"
	"tool-rental/internal/handler/api"
	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	fx.In

	Auth         *api.AuthHandler
	Rental       *api.RentalHandler
	User         *api.UserHandler
	Notification *api.NotificationHandler
	Middleware   *middleware.AuthMiddleware
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authMw := h.Middleware
	can := authMw.RequireRight

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/users", Handler: h.Auth.Users},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMw.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		// PIN-authenticated, no session
		addRoutes(apiGroup.Group("/kiosk"), []route{
			{Method: http.MethodPost, Path: "/lend", Handler: h.Rental.KioskLend},
		})

		protected := apiGroup.Group("")
		protected.Use(authMw.RequireAuth())
		{
			addRoutes(protected.Group("/rentals"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Rental.Create, Mw: []gin.HandlerFunc{can(user.RightCheckout)}},
				{Method: http.MethodGet, Path: "", Handler: h.Rental.List},
				{Method: http.MethodGet, Path: "/export", Handler: h.Rental.Export},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Rental.Get},
				{Method: http.MethodPost, Path: "/:id/decision", Handler: h.Rental.Decide, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/mark-items", Handler: h.Rental.MarkItems, Mw: []gin.HandlerFunc{can(user.RightManageWarehouse)}},
				{Method: http.MethodPost, Path: "/:id/receive-items", Handler: h.Rental.ReceiveItems, Mw: []gin.HandlerFunc{can(user.RightManageWarehouse)}},
				{Method: http.MethodPost, Path: "/:id/extend", Handler: h.Rental.Extend, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/force-extend", Handler: h.Rental.ForceExtend, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Rental.Cancel, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/return", Handler: h.Rental.Return, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/force-return", Handler: h.Rental.ForceReturn, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
				{Method: http.MethodPost, Path: "/:id/lost", Handler: h.Rental.MarkLost, Mw: []gin.HandlerFunc{can(user.RightManageRentals)}},
			})

			addRoutes(protected.Group("/offers"), []route{
				{Method: http.MethodGet, Path: "/:number", Handler: h.Rental.GetOffer},
				{Method: http.MethodPost, Path: "/:number/checkout", Handler: h.Rental.CheckoutOffer, Mw: []gin.HandlerFunc{can(user.RightCheckout)}},
			})

			addRoutes(protected, []route{
				{Method: http.MethodGet, Path: "/availability", Handler: h.Rental.Availability},
				{Method: http.MethodGet, Path: "/projects/search", Handler: h.Rental.SearchProjects},
				{Method: http.MethodGet, Path: "/employees", Handler: h.User.Employees},
				{Method: http.MethodGet, Path: "/employees/status", Handler: h.User.EmployeeStatus},
			})

			admin := protected.Group("/admin/users")
			admin.Use(can(user.RightManageUsers))
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "", Handler: h.User.List},
				{Method: http.MethodPost, Path: "", Handler: h.User.Create},
				{Method: http.MethodPut, Path: "/:employeeID", Handler: h.User.Update},
				{Method: http.MethodDelete, Path: "/:employeeID", Handler: h.User.Delete},
			})

			notifications := protected.Group("/notifications")
			notifications.Use(can(user.RightManageRentals))
			addRoutes(notifications, []route{
				{Method: http.MethodPost, Path: "/run", Handler: h.Notification.Run},
				{Method: http.MethodGet, Path: "/pending", Handler: h.Notification.Pending},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
