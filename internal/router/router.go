package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/config"
	"github.com/dario-aloisi/gestionale-ordini/internal/handler"
	"github.com/dario-aloisi/gestionale-ordini/internal/infra"
	"github.com/dario-aloisi/gestionale-ordini/internal/middleware"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, artifacts *infra.Artifacts) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = infra.NewMailer(cfg)
	}
	bozze := service.NewRedisDraftStore(rdb, time.Duration(cfg.DraftTTLMinutes)*time.Minute)

	// ── Repositories ─────────────────────────────────────────────────────────
	clienteRepo := repository.NewClienteRepository(db)
	prodottoRepo := repository.NewProdottoRepository(db)
	ordineRepo := repository.NewOrdineRepository(db)
	statisticheRepo := repository.NewStatisticheRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	clienteSvc := service.NewClienteService(clienteRepo, ordineRepo)
	prodottoSvc := service.NewProdottoService(prodottoRepo)
	ordineSvc := service.NewOrdineService(ordineRepo, prodottoRepo, bozze, mailer, artifacts,
		cfg.Intestazione, cfg.MailTo)
	statisticheSvc := service.NewStatisticheService(statisticheRepo, clienteRepo, prodottoRepo, ordineRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	clientiH := handler.NewClientiHandler(clienteSvc)
	prodottiH := handler.NewProdottiHandler(prodottoSvc)
	ordiniH := handler.NewOrdiniHandler(ordineSvc)
	statisticheH := handler.NewStatisticheHandler(statisticheSvc)
	systemH := handler.NewSystemHandler(artifacts)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Generated artifacts (previews and archives) served as static files
	r.Static("/static/previews", artifacts.PreviewDir)
	r.Static("/static/archivio", artifacts.ArchivioPDF)

	v1 := r.Group("/v1")
	{
		clienti := v1.Group("/clienti")
		{
			clienti.GET("", clientiH.Lista)
			clienti.POST("", clientiH.Crea)
			clienti.GET("/:id", clientiH.Trova)
			clienti.PUT("/:id", clientiH.Aggiorna)
			clienti.DELETE("/:id", clientiH.Elimina)
			clienti.GET("/:id/storico", clientiH.Storico)
			clienti.GET("/:id/suggerimenti", clientiH.Suggerimenti)
		}

		prodotti := v1.Group("/prodotti")
		{
			prodotti.GET("", prodottiH.Lista)
			prodotti.POST("", prodottiH.Crea)
			prodotti.GET("/:id", prodottiH.Trova)
			prodotti.PUT("/:id", prodottiH.Aggiorna)
			prodotti.DELETE("/:id", prodottiH.Elimina)
		}

		ordini := v1.Group("/ordini")
		{
			ordini.POST("/preview", ordiniH.Preview)
			ordini.POST("/finalizza", ordiniH.Finalizza)
			ordini.GET("", ordiniH.Lista)
			ordini.GET("/:id", ordiniH.Dettaglio)
			ordini.PUT("/:id", ordiniH.Aggiorna)
			ordini.DELETE("/:id", ordiniH.Elimina)
			ordini.GET("/:id/excel", ordiniH.Excel)
		}

		statistiche := v1.Group("/statistiche")
		{
			statistiche.GET("/riepilogo", statisticheH.Riepilogo)
			statistiche.GET("/attivita", statisticheH.Attivita)
			statistiche.GET("/fatturato", statisticheH.Fatturato)
		}

		system := v1.Group("/system")
		{
			system.POST("/backup", systemH.Backup)
			system.POST("/shutdown", systemH.Shutdown)
		}
	}

	return r
}
