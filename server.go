package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bitbucket.org/fieldfocus/punchlist_backend/backend"
	"bitbucket.org/fieldfocus/punchlist_backend/chat"
	"bitbucket.org/fieldfocus/punchlist_backend/config"
	"bitbucket.org/fieldfocus/punchlist_backend/report"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// app bundles the dependencies every handler needs. It is built once in
// main and holds no per-request state.
type app struct {
	cfg      *config.Config
	be       *backend.Client
	renderer *report.Renderer
	chat     *chat.Client
	logger   *logrus.Logger
}

func newApp(cfg *config.Config, logger *logrus.Logger) *app {
	a := &app{
		cfg:      cfg,
		be:       backend.NewClient(cfg.BackendURL, cfg.BackendServiceKey),
		renderer: report.NewRenderer(logger),
		logger:   logger,
	}
	if cfg.ChatCompletionsURL != "" {
		a.chat = chat.NewClient(cfg.ChatCompletionsURL, cfg.ChatModel)
	}
	return a
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Correlation IDs: generate once per request and echo back.
	r.Use(func(c *gin.Context) {
		cid := strings.TrimSpace(c.GetHeader("X-Correlation-Id"))
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header("X-Correlation-Id", cid)
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	if strings.EqualFold(strings.TrimSpace(a.cfg.Env), "production") {
		// Deny all when no allowlist is configured in production.
		corsConfig.AllowOrigins = a.cfg.CORSAllowedOrigins
		if corsConfig.AllowOrigins == nil {
			corsConfig.AllowOrigins = []string{}
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(a.logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/punchlists/generate", generatePunchlistHandler(a))
	r.POST("/manifest/import", importManifestHandler(a))
	// The report handler accepts its identifier via query string or JSON body.
	r.GET("/punchlists/report", renderReportHandler(a))
	r.POST("/punchlists/report", renderReportHandler(a))
	r.POST("/chat/completions", chatCompletionsHandler(a))

	r.NoRoute(customNotFoundHandler)
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	return r
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// abortWithError maps the error taxonomy onto the response and keeps the
// structured JSON error body consistent across handlers.
func abortWithError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	var sbErr *utils.SchemaBootstrapError
	if errors.As(err, &sbErr) {
		c.JSON(status, gin.H{"error": sbErr.Error(), "instructions": sbErr.Instructions()})
	} else {
		c.JSON(status, gin.H{"error": err.Error()})
	}
	_ = c.Error(err)
}

func main() {
	logger := config.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		// Required configuration absent: nothing can proceed.
		logger.WithFields(logrus.Fields{"field": "config"}).Fatal(err.Error())
	}

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(newApp(cfg, logger)),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{"info": "listening"}).Info("punchlist backend up on :", cfg.Port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
