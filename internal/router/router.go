package router

import (
	"time"

	"blendwms/internal/config"
	"blendwms/internal/handler"
	"blendwms/internal/middleware"
	"blendwms/internal/repository"
	"blendwms/internal/service"
	"blendwms/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	articuloRepo := repository.NewArticuloRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	reservaRepo := repository.NewReservaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	depositoRepo := repository.NewDepositoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	asignacionSvc := service.NewAsignacionService(loteRepo, reservaRepo)
	reconciliacionSvc := service.NewReconciliacionService(articuloRepo, loteRepo)
	inventarioSvc := service.NewInventarioService(
		articuloRepo, loteRepo, reservaRepo, movimientoRepo, depositoRepo,
		asignacionSvc, reconciliacionSvc,
	)
	transferenciaSvc := service.NewTransferenciaService(loteRepo, depositoRepo, movimientoRepo, reconciliacionSvc)
	articuloSvc := service.NewArticuloService(articuloRepo, depositoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	inventarioH := handler.NewInventarioHandler(inventarioSvc, transferenciaSvc, reconciliacionSvc, dispatcher)
	articulosH := handler.NewArticulosHandler(articuloSvc)
	lotesH := handler.NewLotesHandler(inventarioSvc)
	movimientosH := handler.NewMovimientosHandler(inventarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operario, supervisor, administrador — declared per-group
		lectura := middleware.RequireRole("operario", "supervisor", "administrador")
		mutacion := middleware.RequireRole("supervisor", "administrador")

		// Catálogo
		v1.GET("/articulos", lectura, articulosH.Listar)
		v1.GET("/articulos/:id", lectura, articulosH.ObtenerPorID)
		v1.POST("/articulos", middleware.RequireRole("administrador"), articulosH.Crear)
		v1.GET("/depositos", lectura, articulosH.ListarDepositos)
		v1.POST("/depositos", middleware.RequireRole("administrador"), articulosH.CrearDeposito)

		// Consultas de stock
		v1.GET("/articulos/:id/lotes", lectura, wrapArticuloParam(lotesH.Listar))
		v1.GET("/articulos/:id/movimientos", lectura, wrapArticuloParam(movimientosH.Listar))

		// Operaciones de stock — el limitador extra protege las rutas de
		// escritura de clientes de importación descontrolados.
		inv := v1.Group("/inventario", mutacion, middleware.MutacionRateLimiter())
		{
			inv.POST("/recepciones", inventarioH.RegistrarRecepcion)
			inv.POST("/salidas", inventarioH.RegistrarSalida)
			inv.POST("/reservas", inventarioH.Reservar)
			inv.DELETE("/reservas", inventarioH.CancelarReserva)
			inv.POST("/transferencias", inventarioH.Transferir)
			inv.POST("/reconciliar/:articulo_id", inventarioH.Reconciliar)
		}

		// Mantenimiento de lotes
		v1.PATCH("/lotes/:id/ajuste", mutacion, lotesH.Ajustar)
		v1.DELETE("/lotes/:id", middleware.RequireRole("administrador"), lotesH.Eliminar)
	}

	return r
}

// wrapArticuloParam aliases the :id path param as :articulo_id so handlers
// that read c.Param("articulo_id") work under the /articulos/:id subtree
// (Gin forbids two different param names at the same position).
func wrapArticuloParam(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "articulo_id", Value: c.Param("id")})
		h(c)
	}
}
