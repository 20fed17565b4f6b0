package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/procurahq/procura/internal/config"
	"github.com/procurahq/procura/internal/draft"
	"github.com/procurahq/procura/internal/events"
	"github.com/procurahq/procura/internal/invoice"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	obsmetrics "github.com/procurahq/procura/internal/observability/metrics"
	"github.com/procurahq/procura/internal/product"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/internal/providers/pdf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	events.Module,
	pdf.Module,
	product.Module,
	invoice.Module,
	draft.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(httpMetrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	productSvc  productdomain.Service
	invoiceSvc  invoicedomain.Service
	draftSvc    *draft.Service
	pdfRenderer pdf.Renderer
	productFeed *events.Hub
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	ProductSvc  productdomain.Service
	InvoiceSvc  invoicedomain.Service
	DraftSvc    *draft.Service
	PDFRenderer pdf.Renderer
	ProductFeed *events.Hub `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		productSvc:  p.ProductSvc,
		invoiceSvc:  p.InvoiceSvc,
		draftSvc:    p.DraftSvc,
		pdfRenderer: p.PDFRenderer,
		productFeed: p.ProductFeed,
	}

	svc.registerProductRoutes()
	svc.registerDraftRoutes()
	svc.registerInvoiceRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerProductRoutes() {
	v1 := s.engine.Group("/v1")

	v1.GET("/products", s.ListProducts)
	v1.POST("/products", s.CreateProduct)
	v1.POST("/products/import", s.ImportProducts)
	v1.GET("/products/feed", s.StreamProductFeed)
	v1.GET("/products/:id", s.GetProductByID)
	v1.PATCH("/products/:id", s.UpdateProduct)
}

func (s *Server) registerDraftRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/drafts", s.CreateDraft)
	v1.GET("/drafts/:id", s.GetDraft)
	v1.PUT("/drafts/:id/items/:productId", s.SelectDraftItem)
	v1.PATCH("/drafts/:id/items/:productId", s.SetDraftItemQuantity)
	v1.DELETE("/drafts/:id/items/:productId", s.DeselectDraftItem)
	v1.POST("/drafts/:id/finalize", s.FinalizeDraft)
}

func (s *Server) registerInvoiceRoutes() {
	v1 := s.engine.Group("/v1")

	v1.GET("/invoices", s.ListInvoices)
	v1.POST("/invoices", s.CreateInvoice)
	v1.GET("/invoices/:id", s.GetInvoiceByID)
	v1.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)
	v1.GET("/invoices/:id/pdf", s.RenderInvoicePDF)
}
